package handlers

import (
	"strings"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest represents a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"max=2000"`
}

// ListComments returns a project's comments, newest first
func (h *Handler) ListComments(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	comments, err := h.comments.ListByProject(c.UserContext(), project.ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, comments)
}

// CreateComment adds a comment to a project
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	var req CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return apperr.ErrBlankContent
	}

	comment, err := h.comments.Create(c.UserContext(), models.Comment{
		ProjectID: c.Params("id"),
		UserID:    middleware.GetUserID(c),
		Content:   content,
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, comment)
}

// DeleteComment removes one of the caller's comments
func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	comment, err := h.comments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if comment.UserID != middleware.GetUserID(c) {
		return apperr.Forbidden("You can only delete your own comments")
	}

	if err := h.comments.Delete(c.UserContext(), comment.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comment deleted",
	})
}
