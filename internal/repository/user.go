package repository

import (
	"context"
	"fmt"

	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, email, passwordHash, fullName string) (models.User, error) {
	var user models.User
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash)
			VALUES ($1, $2)
			RETURNING id::text, email, password_hash, created_at
		`, email, passwordHash).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `INSERT INTO profiles (id, full_name) VALUES ($1, $2)`, user.ID, fullName)
		return err
	})
	if err != nil {
		return models.User{}, translate(err, "create user")
	}
	return user, nil
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PgUserRepository) findOne(ctx context.Context, column, value string) (models.User, error) {
	var user models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, created_at
		FROM users WHERE `+column+` = $1
	`, value).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return models.User{}, translate(err, fmt.Sprintf("user by %s", column))
	}
	return user, nil
}
