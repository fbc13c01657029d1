package handlers

import (
	"strings"

	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateProjectRequest represents a new project listing
type CreateProjectRequest struct {
	Title               string   `json:"title" validate:"required,max=200"`
	Description         string   `json:"description" validate:"required,max=5000"`
	Category            string   `json:"category" validate:"required,max=100"`
	Skills              []string `json:"skills" validate:"max=30,dive,max=50"`
	Duration            string   `json:"duration" validate:"max=100"`
	TeamSize            string   `json:"team_size" validate:"max=50"`
	Compensation        string   `json:"compensation" validate:"max=100"`
	CompensationDetails string   `json:"compensation_details" validate:"max=1000"`
	Status              string   `json:"status" validate:"omitempty,oneof=draft active completed"`
}

// EngagementRequest represents a like/interest toggle
type EngagementRequest struct {
	Liked      bool `json:"liked"`
	Interested bool `json:"interested"`
}

func (r *CreateProjectRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Skills = normalizeSkills(r.Skills)
}

// CreateProject creates a project owned by the caller
func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project, err := h.projects.Create(c.UserContext(), models.Project{
		CreatedBy:           middleware.GetUserID(c),
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		Skills:              req.Skills,
		Duration:            req.Duration,
		TeamSize:            req.TeamSize,
		Compensation:        req.Compensation,
		CompensationDetails: req.CompensationDetails,
		Status:              status,
	})
	if err != nil {
		return err
	}

	h.log.Info("project created", "project_id", project.ID, "owner_id", project.CreatedBy)
	return ok(c, fiber.StatusCreated, project)
}

// ListProjects is the discover feed, newest first
func (h *Handler) ListProjects(c *fiber.Ctx) error {
	filter := models.ProjectFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Query:    strings.TrimSpace(c.Query("q")),
		Role:     strings.TrimSpace(c.Query("role")),
	}
	if err := validate.Var(filter.Status, "omitempty,oneof=draft active completed"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status filter")
	}

	projects, err := h.projects.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, projects)
}

// GetProject returns one project with its owner
func (h *Handler) GetProject(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, project)
}

// ListUserProjects returns the projects a user created
func (h *Handler) ListUserProjects(c *fiber.Ctx) error {
	projects, err := h.projects.ListByOwner(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, projects)
}

// ListJoinedProjects returns the projects a user proposed to
func (h *Handler) ListJoinedProjects(c *fiber.Ctx) error {
	projects, err := h.projects.ListJoined(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, projects)
}

// SetEngagement records the caller's like/interest on a project
func (h *Handler) SetEngagement(c *fiber.Ctx) error {
	var req EngagementRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	engagement, err := h.projects.SetEngagement(c.UserContext(), models.Engagement{
		ProjectID:  c.Params("id"),
		UserID:     middleware.GetUserID(c),
		Liked:      req.Liked,
		Interested: req.Interested,
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, engagement)
}
