package handlers

import (
	"errors"
	"strings"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateProposalRequest represents a request to join a project
type CreateProposalRequest struct {
	Message      string `json:"message" validate:"required,max=2000"`
	LinkedIn     string `json:"linkedin" validate:"omitempty,url,max=300"`
	ExpectedRole string `json:"expected_role" validate:"max=100"`
}

// UpdateProposalRequest represents the owner's decision
type UpdateProposalRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

func (r *CreateProposalRequest) normalize() {
	r.Message = strings.TrimSpace(r.Message)
	r.LinkedIn = strings.TrimSpace(r.LinkedIn)
	r.ExpectedRole = strings.TrimSpace(r.ExpectedRole)
}

// CreateProposal sends a proposal to another user's project
func (h *Handler) CreateProposal(c *fiber.Ctx) error {
	var req CreateProposalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	userID := middleware.GetUserID(c)

	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if project.CreatedBy == userID {
		return apperr.Forbidden("You cannot send a proposal to your own project")
	}

	proposal, err := h.proposals.Create(c.UserContext(), models.Proposal{
		ProjectID:    project.ID,
		SenderID:     userID,
		Message:      req.Message,
		LinkedIn:     req.LinkedIn,
		ExpectedRole: req.ExpectedRole,
	})
	if errors.Is(err, apperr.ErrConflict) {
		return fiber.NewError(fiber.StatusConflict, "You already sent a proposal to this project")
	}
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusCreated, proposal)
}

// ListIncomingProposals returns proposals sent to the caller's projects
func (h *Handler) ListIncomingProposals(c *fiber.Ctx) error {
	proposals, err := h.proposals.ListIncoming(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, proposals)
}

// ListOutgoingProposals returns proposals the caller sent
func (h *Handler) ListOutgoingProposals(c *fiber.Ctx) error {
	proposals, err := h.proposals.ListOutgoing(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, proposals)
}

// UpdateProposalStatus accepts or rejects a pending proposal
func (h *Handler) UpdateProposalStatus(c *fiber.Ctx) error {
	var req UpdateProposalRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	proposal, err := h.proposals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.UserContext(), proposal.ProjectID)
	if err != nil {
		return err
	}
	if project.CreatedBy != middleware.GetUserID(c) {
		return apperr.Forbidden("Only the project owner can answer proposals")
	}

	updated, err := h.proposals.UpdateStatus(c.UserContext(), proposal.ID, req.Status)
	if err != nil {
		return err
	}

	h.log.Info("proposal answered", "proposal_id", updated.ID, "status", updated.Status)
	return ok(c, fiber.StatusOK, updated)
}
