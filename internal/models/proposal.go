package models

import "time"

const (
	ProposalStatusPending  = "pending"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

// Proposal is a request from a user to join a project.
type Proposal struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"projectId" db:"project_id"`
	SenderID     string    `json:"senderId" db:"sender_id"`
	Message      string    `json:"message" db:"message"`
	LinkedIn     string    `json:"linkedin" db:"linkedin"`
	ExpectedRole string    `json:"expectedRole" db:"expected_role"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProposalWithDetails joins the sender profile and the project title.
type ProposalWithDetails struct {
	Proposal
	Sender       *ProfileSummary `json:"sender,omitempty"`
	ProjectTitle string          `json:"projectTitle"`
}
