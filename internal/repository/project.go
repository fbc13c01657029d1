package repository

import (
	"context"
	"fmt"
	"strings"

	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `p.id::text, p.created_by::text, p.title, p.description, p.category, p.skills,
	p.duration, p.team_size, p.compensation, p.compensation_details, p.status, p.created_at, p.updated_at`

const ownerColumns = `o.id::text, o.full_name, o.avatar_url, o.role`

type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

func (r *PgProjectRepository) Create(ctx context.Context, p models.Project) (models.Project, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects AS p (created_by, title, description, category, skills, duration,
			team_size, compensation, compensation_details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns,
		p.CreatedBy, p.Title, p.Description, p.Category, p.Skills, p.Duration,
		p.TeamSize, p.Compensation, p.CompensationDetails, p.Status)

	created, err := scanProject(row)
	if err != nil {
		return models.Project{}, translate(err, "create project")
	}
	return created, nil
}

func (r *PgProjectRepository) Get(ctx context.Context, id string) (models.ProjectWithOwner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`, `+ownerColumns+`
		FROM projects p
		LEFT JOIN profiles o ON o.id = p.created_by
		WHERE p.id = $1
	`, id)
	project, err := scanProjectWithOwner(row)
	if err != nil {
		return models.ProjectWithOwner{}, translate(err, fmt.Sprintf("project %s", id))
	}
	return project, nil
}

func (r *PgProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectWithOwner, error) {
	where, args := projectFilterClause(filter)
	query := `
		SELECT ` + projectColumns + `, ` + ownerColumns + `
		FROM projects p
		LEFT JOIN profiles o ON o.id = p.created_by` + where + `
		ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list projects")
	}
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProjectWithOwner, error) {
		return scanProjectWithOwner(row)
	})
	if err != nil {
		return nil, translate(err, "scan projects")
	}
	return projects, nil
}

func (r *PgProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE p.created_by = $1
		ORDER BY p.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, translate(err, "list owned projects")
	}
	return collectProjects(rows)
}

func (r *PgProjectRepository) ListJoined(ctx context.Context, userID string) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE p.id IN (SELECT project_id FROM proposals WHERE sender_id = $1)
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, translate(err, "list joined projects")
	}
	return collectProjects(rows)
}

func (r *PgProjectRepository) SetEngagement(ctx context.Context, e models.Engagement) (models.Engagement, error) {
	var out models.Engagement
	err := r.pool.QueryRow(ctx, `
		INSERT INTO project_engagement (project_id, user_id, liked, interested)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET liked = EXCLUDED.liked,
		              interested = EXCLUDED.interested,
		              updated_at = now()
		RETURNING project_id::text, user_id::text, liked, interested, updated_at
	`, e.ProjectID, e.UserID, e.Liked, e.Interested).
		Scan(&out.ProjectID, &out.UserID, &out.Liked, &out.Interested, &out.UpdatedAt)
	if err != nil {
		return models.Engagement{}, translate(err, "set engagement")
	}
	return out, nil
}

// projectFilterClause renders filter as a WHERE clause with positional args.
// The free-text query matches title, description or any skill; role matches
// a skill only.
func projectFilterClause(filter models.ProjectFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, strings.ToLower(filter.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, containsPattern(filter.Query))
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(p.title ILIKE $%d ESCAPE '\\' OR p.description ILIKE $%d ESCAPE '\\' OR %s)",
			n, n, skillMatches(n)))
	}
	if filter.Role != "" {
		args = append(args, containsPattern(filter.Role))
		where = append(where, skillMatches(len(args)))
	}
	if len(where) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(where, " AND "), args
}

func skillMatches(n int) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(p.skills) s WHERE s ILIKE $%d ESCAPE '\\')", n)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func projectDest(p *models.Project) []any {
	return []any{&p.ID, &p.CreatedBy, &p.Title, &p.Description, &p.Category, &p.Skills,
		&p.Duration, &p.TeamSize, &p.Compensation, &p.CompensationDetails, &p.Status,
		&p.CreatedAt, &p.UpdatedAt}
}

func scanProject(row pgx.Row) (models.Project, error) {
	var p models.Project
	err := row.Scan(projectDest(&p)...)
	return p, err
}

func scanProjectWithOwner(row pgx.Row) (models.ProjectWithOwner, error) {
	var p models.ProjectWithOwner
	var owner joinedProfile
	if err := row.Scan(append(projectDest(&p.Project), owner.dest()...)...); err != nil {
		return models.ProjectWithOwner{}, err
	}
	p.Owner = owner.summary()
	return p, nil
}

func collectProjects(rows pgx.Rows) ([]models.Project, error) {
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Project, error) {
		return scanProject(row)
	})
	if err != nil {
		return nil, translate(err, "scan projects")
	}
	return projects, nil
}
