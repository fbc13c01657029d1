package handlers

import (
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessageRequest represents send message request body. ClientNonce is
// echoed back so the sender can reconcile its pending copy.
type SendMessageRequest struct {
	Content     string `json:"content" validate:"max=5000"`
	ClientNonce string `json:"client_nonce" validate:"max=64"`
}

// SendMessageResponse is the data of a successful send
type SendMessageResponse struct {
	Message     models.Message `json:"message"`
	ClientNonce string         `json:"clientNonce,omitempty"`
}

// GetConversations returns the caller's inbox: the latest message per counterpart
func (h *Handler) GetConversations(c *fiber.Ctx) error {
	conversations := h.conversations.Inbox(c.UserContext(), middleware.GetUserID(c))
	return ok(c, fiber.StatusOK, conversations)
}

// GetThread returns the full exchange with one user, oldest first
func (h *Handler) GetThread(c *fiber.Ctx) error {
	thread, err := h.conversations.Thread(c.UserContext(), middleware.GetUserID(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, thread)
}

// SendMessage sends a direct message
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.conversations.Send(c.UserContext(), middleware.GetUserID(c), c.Params("userId"), req.Content, req.ClientNonce)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, SendMessageResponse{
		Message:     msg,
		ClientNonce: req.ClientNonce,
	})
}
