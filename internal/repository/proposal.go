package repository

import (
	"context"
	"errors"
	"fmt"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const proposalColumns = `pr.id::text, pr.project_id::text, pr.sender_id::text, pr.message, pr.linkedin,
	pr.expected_role, pr.status, pr.created_at, pr.updated_at`

type PgProposalRepository struct {
	pool *pgxpool.Pool
}

func NewPgProposalRepository(pool *pgxpool.Pool) *PgProposalRepository {
	return &PgProposalRepository{pool: pool}
}

func (r *PgProposalRepository) Create(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO proposals AS pr (project_id, sender_id, message, linkedin, expected_role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+proposalColumns,
		p.ProjectID, p.SenderID, p.Message, p.LinkedIn, p.ExpectedRole)
	created, err := scanProposal(row)
	if err != nil {
		return models.Proposal{}, translate(err, "create proposal")
	}
	return created, nil
}

func (r *PgProposalRepository) Get(ctx context.Context, id string) (models.Proposal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+proposalColumns+` FROM proposals pr WHERE pr.id = $1`, id)
	p, err := scanProposal(row)
	if err != nil {
		return models.Proposal{}, translate(err, fmt.Sprintf("proposal %s", id))
	}
	return p, nil
}

func (r *PgProposalRepository) ListIncoming(ctx context.Context, ownerID string) ([]models.ProposalWithDetails, error) {
	return r.listDetailed(ctx, "p.created_by = $1", ownerID)
}

func (r *PgProposalRepository) ListOutgoing(ctx context.Context, senderID string) ([]models.ProposalWithDetails, error) {
	return r.listDetailed(ctx, "pr.sender_id = $1", senderID)
}

func (r *PgProposalRepository) listDetailed(ctx context.Context, where, arg string) ([]models.ProposalWithDetails, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+proposalColumns+`, p.title, s.id::text, s.full_name, s.avatar_url, s.role
		FROM proposals pr
		JOIN projects p ON p.id = pr.project_id
		LEFT JOIN profiles s ON s.id = pr.sender_id
		WHERE `+where+`
		ORDER BY pr.created_at DESC
	`, arg)
	if err != nil {
		return nil, translate(err, "list proposals")
	}

	proposals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProposalWithDetails, error) {
		var p models.ProposalWithDetails
		var sender joinedProfile
		dest := append(proposalDest(&p.Proposal), &p.ProjectTitle)
		if err := row.Scan(append(dest, sender.dest()...)...); err != nil {
			return models.ProposalWithDetails{}, err
		}
		p.Sender = sender.summary()
		return p, nil
	})
	if err != nil {
		return nil, translate(err, "scan proposals")
	}
	return proposals, nil
}

// UpdateStatus only moves a proposal out of pending; a decided proposal
// reports ErrConflict.
func (r *PgProposalRepository) UpdateStatus(ctx context.Context, id, status string) (models.Proposal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE proposals pr SET status = $2, updated_at = now()
		WHERE pr.id = $1 AND pr.status = 'pending'
		RETURNING `+proposalColumns,
		id, status)
	p, err := scanProposal(row)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.Get(ctx, id)
		if getErr != nil {
			return models.Proposal{}, getErr
		}
		return models.Proposal{}, fmt.Errorf("proposal %s already %s: %w", id, current.Status, apperr.ErrConflict)
	}
	return models.Proposal{}, translate(err, "update proposal")
}

func proposalDest(p *models.Proposal) []any {
	return []any{&p.ID, &p.ProjectID, &p.SenderID, &p.Message, &p.LinkedIn,
		&p.ExpectedRole, &p.Status, &p.CreatedAt, &p.UpdatedAt}
}

func scanProposal(row pgx.Row) (models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(proposalDest(&p)...)
	return p, err
}
