package repository

import (
	"context"
	"fmt"

	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id::text, full_name, avatar_url, bio, location, role, skills, created_at, updated_at`

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Get(ctx context.Context, id string) (models.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, translate(err, fmt.Sprintf("profile %s", id))
	}
	return p, nil
}

func (r *PgProfileRepository) GetMany(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, translate(err, "list profiles")
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Profile, error) {
		return scanProfile(row)
	})
	if err != nil {
		return nil, translate(err, "scan profiles")
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PgProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id::text = $1)`, id).Scan(&exists)
	if err != nil {
		return false, translate(err, "profile exists")
	}
	return exists, nil
}

func (r *PgProfileRepository) Update(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET full_name = $2, bio = $3, location = $4, role = $5, skills = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, update.FullName, update.Bio, update.Location, update.Role, update.Skills)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, translate(err, "update profile")
	}
	return p, nil
}

func (r *PgProfileRepository) SetAvatar(ctx context.Context, id, avatarURL string) (models.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, avatarURL)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, translate(err, "set avatar")
	}
	return p, nil
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.Bio, &p.Location, &p.Role,
		&p.Skills, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
