package repository

import (
	"errors"
	"fmt"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
)

// translate maps driver errors onto apperr sentinels, keeping the cause.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", what, apperr.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced row: %w", what, apperr.ErrNotFound)
		case pgCheckViolation:
			return fmt.Errorf("%s: %s: %w", what, pgErr.ConstraintName, apperr.ErrInvalidInput)
		case pgInvalidTextRep:
			// malformed uuid in a path parameter
			return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// joinedProfile receives the nullable profile columns of a LEFT JOIN.
type joinedProfile struct {
	ID        *string
	FullName  *string
	AvatarURL *string
	Role      *string
}

func (j *joinedProfile) dest() []any {
	return []any{&j.ID, &j.FullName, &j.AvatarURL, &j.Role}
}

// summary is nil when the joined row was missing.
func (j *joinedProfile) summary() *models.ProfileSummary {
	if j.ID == nil {
		return nil
	}
	return &models.ProfileSummary{
		ID:        *j.ID,
		FullName:  lo.FromPtr(j.FullName),
		AvatarURL: j.AvatarURL,
		Role:      lo.FromPtr(j.Role),
	}
}
