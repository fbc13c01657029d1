package repository

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"teamforge/server/internal/database"
	"teamforge/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to DATABASE_URL and applies the schema. Tests using it
// are skipped when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

// createTestProfile inserts a user and its profile, removed again on cleanup
// together with every message it sent or received.
func createTestProfile(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, 'x')`,
		id, id+"@example.com")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO profiles (id, full_name) VALUES ($1, 'Test User')`, id)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func insertMessageAt(t *testing.T, pool *pgxpool.Pool, from, to, content string, at time.Time) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
		INSERT INTO messages (sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, from, to, content, at).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPgMessageRepository_ListInvolvingOrder(t *testing.T) {
	req := require.New(t)
	pool := newTestPool(t)
	repo := NewPgMessageRepository(pool)

	me := createTestProfile(t, pool)
	a := createTestProfile(t, pool)
	b := createTestProfile(t, pool)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := insertMessageAt(t, pool, a, me, "oldest", base)
	tieFirst := insertMessageAt(t, pool, me, a, "tie first", base.Add(time.Minute))
	tieSecond := insertMessageAt(t, pool, b, me, "tie second", base.Add(time.Minute))
	newest := insertMessageAt(t, pool, me, b, "newest", base.Add(2*time.Minute))

	got, err := repo.ListInvolving(context.Background(), me)
	req.NoError(err)

	ids := lo.Map(got, func(m models.Message, _ int) string { return m.ID })
	req.Equal([]string{newest, tieSecond, tieFirst, oldest}, ids)
	req.Greater(got[1].Seq, got[2].Seq)
}

func TestPgMessageRepository_ListThreadOldestFirst(t *testing.T) {
	req := require.New(t)
	pool := newTestPool(t)
	repo := NewPgMessageRepository(pool)

	me := createTestProfile(t, pool)
	a := createTestProfile(t, pool)
	other := createTestProfile(t, pool)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := insertMessageAt(t, pool, a, me, "first", at)
	second := insertMessageAt(t, pool, me, a, "second", at)
	insertMessageAt(t, pool, other, me, "elsewhere", at)

	got, err := repo.ListThread(context.Background(), me, a)
	req.NoError(err)

	ids := lo.Map(got, func(m models.Message, _ int) string { return m.ID })
	req.Equal([]string{first, second}, ids)
}

func TestPgMessageRepository_AppendStoresClientNonce(t *testing.T) {
	req := require.New(t)
	pool := newTestPool(t)
	repo := NewPgMessageRepository(pool)
	ctx := context.Background()

	me := createTestProfile(t, pool)
	a := createTestProfile(t, pool)

	withNonce, err := repo.Append(ctx, models.Message{SenderID: me, ReceiverID: a, Content: "hi", ClientNonce: "n-1"})
	req.NoError(err)
	req.NotEmpty(withNonce.ID)
	req.Equal("n-1", withNonce.ClientNonce)

	without, err := repo.Append(ctx, models.Message{SenderID: me, ReceiverID: a, Content: "again"})
	req.NoError(err)
	req.Empty(without.ClientNonce)
	req.Greater(without.Seq, withNonce.Seq)

	thread, err := repo.ListThread(ctx, a, me)
	req.NoError(err)
	req.Len(thread, 2)
	req.Equal("n-1", thread[0].ClientNonce)
}
