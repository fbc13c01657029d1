// Package handlers exposes the HTTP surface. Every handler reads the caller's
// id from the validated token and passes it explicitly to the stores.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/conversation"
	"teamforge/server/internal/repository"
	"teamforge/server/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Deps groups everything the handlers need.
type Deps struct {
	Users         repository.UserRepository
	Profiles      repository.ProfileRepository
	Projects      repository.ProjectRepository
	Proposals     repository.ProposalRepository
	Comments      repository.CommentRepository
	Conversations *conversation.Service
	Tokens        *utils.TokenManager
	UploadDir     string
	CookieSecure  bool
	Log           *slog.Logger
}

type Handler struct {
	users         repository.UserRepository
	profiles      repository.ProfileRepository
	projects      repository.ProjectRepository
	proposals     repository.ProposalRepository
	comments      repository.CommentRepository
	conversations *conversation.Service
	tokens        *utils.TokenManager
	uploadDir     string
	cookieSecure  bool
	log           *slog.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		users:         d.Users,
		profiles:      d.Profiles,
		projects:      d.Projects,
		proposals:     d.Proposals,
		comments:      d.Comments,
		conversations: d.Conversations,
		tokens:        d.Tokens,
		uploadDir:     d.UploadDir,
		cookieSecure:  d.CookieSecure,
		log:           log,
	}
}

// Health reports that the API is up.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "TeamForge API is running",
	})
}

// ErrorHandler renders any error returned by a handler in the standard
// envelope. Server-side failures are logged and their cause is not exposed.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := apperr.Status(err)
		msg := err.Error()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", requestID(c),
				"error", err,
			)
			msg = "Internal server error"
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// normalizer is implemented by request bodies that clean their fields
// (trim, lowercase) before the validation tags run.
type normalizer interface {
	normalize()
}

// bind parses the JSON body into dst, normalises it and runs struct validation on it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
