package routes

import (
	"teamforge/server/internal/handlers"
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h *handlers.Handler, tokens *utils.TokenManager) {
	auth := middleware.Auth(tokens)

	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", h.Health)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.StrictRateLimiter(), h.Register)
	authGroup.Post("/login", middleware.StrictRateLimiter(), h.Login)
	authGroup.Post("/refresh", middleware.StrictRateLimiter(), h.RefreshToken)
	authGroup.Post("/logout", auth, h.Logout)
	authGroup.Get("/me", auth, h.Me)

	// Profile routes (protected)
	profiles := api.Group("/profiles", auth)
	profiles.Put("/me", middleware.ModerateRateLimiter(), h.UpdateMyProfile)
	profiles.Post("/me/avatar", middleware.UploadRateLimiter(), h.UploadAvatar)
	profiles.Get("/:id", middleware.RelaxedRateLimiter(), h.GetProfile)
	profiles.Get("/:id/projects", middleware.RelaxedRateLimiter(), h.ListUserProjects)
	profiles.Get("/:id/joined", middleware.RelaxedRateLimiter(), h.ListJoinedProjects)

	// Project routes (protected)
	projects := api.Group("/projects", auth)
	projects.Post("/", middleware.ModerateRateLimiter(), h.CreateProject)
	projects.Get("/", middleware.RelaxedRateLimiter(), h.ListProjects)
	projects.Get("/:id", middleware.RelaxedRateLimiter(), h.GetProject)
	projects.Put("/:id/engagement", middleware.ModerateRateLimiter(), h.SetEngagement)
	projects.Post("/:id/proposals", middleware.ModerateRateLimiter(), h.CreateProposal)
	projects.Get("/:id/comments", middleware.RelaxedRateLimiter(), h.ListComments)
	projects.Post("/:id/comments", middleware.ModerateRateLimiter(), h.CreateComment)

	// Proposal routes (protected)
	proposals := api.Group("/proposals", auth)
	proposals.Get("/incoming", h.ListIncomingProposals)
	proposals.Get("/outgoing", h.ListOutgoingProposals)
	proposals.Patch("/:id", middleware.ModerateRateLimiter(), h.UpdateProposalStatus)

	// Comment routes (protected)
	api.Delete("/comments/:id", auth, h.DeleteComment)

	// Message routes (protected)
	messages := api.Group("/messages", auth)
	messages.Get("/", middleware.RelaxedRateLimiter(), h.GetConversations)
	messages.Get("/:userId", middleware.RelaxedRateLimiter(), h.GetThread)
	messages.Post("/:userId", middleware.ModerateRateLimiter(), h.SendMessage)

	// Serve uploaded avatars (public)
	app.Get("/uploads/avatars/:filename", h.GetAvatar)
}
