//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

// Package repository is the store boundary. Implementations normalise rows
// into typed models and translate driver errors into apperr sentinels.
package repository

import (
	"context"

	"teamforge/server/internal/models"
)

type UserRepository interface {
	// Create inserts the credentials row and an empty profile in one transaction.
	Create(ctx context.Context, email, passwordHash, fullName string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, id string) (models.Profile, error)
	// GetMany returns the profiles found among ids, keyed by id. Missing ids
	// are simply absent from the map.
	GetMany(ctx context.Context, ids []string) (map[string]models.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error)
	SetAvatar(ctx context.Context, id, avatarURL string) (models.Profile, error)
}

type MessageRepository interface {
	// ListInvolving returns every message sent or received by userID,
	// newest first (created_at, then seq).
	ListInvolving(ctx context.Context, userID string) ([]models.Message, error)
	// ListThread returns the messages exchanged between a and b, oldest first.
	ListThread(ctx context.Context, a, b string) ([]models.Message, error)
	// Append stores msg; id, seq and created_at are assigned by the store.
	Append(ctx context.Context, msg models.Message) (models.Message, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	Get(ctx context.Context, id string) (models.ProjectWithOwner, error)
	List(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectWithOwner, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	// ListJoined returns the projects userID has sent a proposal to.
	ListJoined(ctx context.Context, userID string) ([]models.Project, error)
	SetEngagement(ctx context.Context, e models.Engagement) (models.Engagement, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, p models.Proposal) (models.Proposal, error)
	Get(ctx context.Context, id string) (models.Proposal, error)
	// ListIncoming returns proposals sent to projects owned by ownerID.
	ListIncoming(ctx context.Context, ownerID string) ([]models.ProposalWithDetails, error)
	ListOutgoing(ctx context.Context, senderID string) ([]models.ProposalWithDetails, error)
	UpdateStatus(ctx context.Context, id, status string) (models.Proposal, error)
}

type CommentRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]models.CommentWithAuthor, error)
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	Get(ctx context.Context, id string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}
