package repository

import (
	"context"

	"teamforge/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

const messageColumns = `id::text, seq, sender_id::text, receiver_id::text, content, created_at, COALESCE(client_nonce, '')`

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) ListInvolving(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, seq DESC
	`, userID)
	if err != nil {
		return nil, translate(err, "list messages")
	}
	return collectMessages(rows)
}

func (r *PgMessageRepository) ListThread(ctx context.Context, a, b string) ([]models.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, seq ASC
	`, a, b)
	if err != nil {
		return nil, translate(err, "list thread")
	}
	return collectMessages(rows)
}

func (r *PgMessageRepository) Append(ctx context.Context, m models.Message) (models.Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content, client_nonce)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING `+messageColumns,
		m.SenderID, m.ReceiverID, m.Content, m.ClientNonce)

	stored, err := scanMessage(row)
	if err != nil {
		return models.Message{}, translate(err, "append message")
	}
	return stored, nil
}

func scanMessage(row pgx.Row) (models.Message, error) {
	var m models.Message
	var sender, receiver *string
	if err := row.Scan(&m.ID, &m.Seq, &sender, &receiver, &m.Content, &m.CreatedAt, &m.ClientNonce); err != nil {
		return models.Message{}, err
	}
	// a deleted profile leaves NULL behind; the reducer treats "" as unresolvable
	m.SenderID = lo.FromPtr(sender)
	m.ReceiverID = lo.FromPtr(receiver)
	return m, nil
}

func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		return scanMessage(row)
	})
	if err != nil {
		return nil, translate(err, "scan messages")
	}
	return messages, nil
}
