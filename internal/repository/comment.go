package repository

import (
	"context"
	"fmt"

	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

func (r *PgCommentRepository) ListByProject(ctx context.Context, projectID string) ([]models.CommentWithAuthor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.project_id::text, c.user_id::text, c.content, c.created_at,
			a.id::text, a.full_name, a.avatar_url, a.role
		FROM comments c
		LEFT JOIN profiles a ON a.id = c.user_id
		WHERE c.project_id = $1
		ORDER BY c.created_at DESC
	`, projectID)
	if err != nil {
		return nil, translate(err, "list comments")
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CommentWithAuthor, error) {
		var c models.CommentWithAuthor
		var author joinedProfile
		dest := []any{&c.ID, &c.ProjectID, &c.UserID, &c.Content, &c.CreatedAt}
		if err := row.Scan(append(dest, author.dest()...)...); err != nil {
			return models.CommentWithAuthor{}, err
		}
		c.Author = author.summary()
		return c, nil
	})
	if err != nil {
		return nil, translate(err, "scan comments")
	}
	return comments, nil
}

func (r *PgCommentRepository) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	var out models.Comment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO comments (project_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id::text, project_id::text, user_id::text, content, created_at
	`, c.ProjectID, c.UserID, c.Content).
		Scan(&out.ID, &out.ProjectID, &out.UserID, &out.Content, &out.CreatedAt)
	if err != nil {
		return models.Comment{}, translate(err, "create comment")
	}
	return out, nil
}

func (r *PgCommentRepository) Get(ctx context.Context, id string) (models.Comment, error) {
	var c models.Comment
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, project_id::text, user_id::text, content, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return models.Comment{}, translate(err, fmt.Sprintf("comment %s", id))
	}
	return c, nil
}

func (r *PgCommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete comment")
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, fmt.Sprintf("comment %s", id))
	}
	return nil
}
