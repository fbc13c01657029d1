package handlers

import (
	"strings"

	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// UpdateProfileRequest represents the editable part of a profile
type UpdateProfileRequest struct {
	FullName string   `json:"full_name" validate:"required,max=100"`
	Bio      string   `json:"bio" validate:"max=1000"`
	Location string   `json:"location" validate:"max=100"`
	Role     string   `json:"role" validate:"max=100"`
	Skills   []string `json:"skills" validate:"max=30,dive,max=50"`
}

func (r *UpdateProfileRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Bio = strings.TrimSpace(r.Bio)
	r.Location = strings.TrimSpace(r.Location)
	r.Role = strings.TrimSpace(r.Role)
	r.Skills = normalizeSkills(r.Skills)
}

// GetProfile returns a public profile
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, profile)
}

// UpdateMyProfile updates the caller's own profile
func (h *Handler) UpdateMyProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.Update(c.UserContext(), middleware.GetUserID(c), models.ProfileUpdate{
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
		Role:     req.Role,
		Skills:   req.Skills,
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, profile)
}

// normalizeSkills trims entries, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling.
func normalizeSkills(skills []string) []string {
	trimmed := lo.FilterMap(skills, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	return lo.UniqBy(trimmed, strings.ToLower)
}
