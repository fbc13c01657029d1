package conversation

import (
	"math/rand"
	"testing"
	"time"

	"teamforge/server/internal/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const me = "U"

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func msg(id, from, to, content string, t int) models.Message {
	return models.Message{
		ID:         id,
		Seq:        int64(t),
		SenderID:   from,
		ReceiverID: to,
		Content:    content,
		CreatedAt:  epoch.Add(time.Duration(t) * time.Minute),
	}
}

func TestCounterpart(t *testing.T) {
	tests := []struct {
		name   string
		m      models.Message
		want   string
		wantOK bool
	}{
		{"sent by me", msg("1", me, "B", "x", 1), "B", true},
		{"received by me", msg("1", "A", me, "x", 1), "A", true},
		{"to myself", msg("1", me, me, "x", 1), me, true},
		{"missing sender", msg("1", "", me, "x", 1), "", false},
		{"missing receiver", msg("1", me, "", "x", 1), "", false},
		{"both missing", msg("1", "", "", "x", 1), "", false},
		{"not involving me", msg("1", "A", "B", "x", 1), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Counterpart(tt.m, me)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReduce_Scenario(t *testing.T) {
	req := require.New(t)
	input := []models.Message{
		msg("3", "A", me, "hi2", 3),
		msg("2", me, "B", "yo", 2),
		msg("1", "A", me, "hi1", 1),
	}

	got := ReduceToLatestPerCounterpart(input, me)

	req.Equal([]models.Message{input[0], input[1]}, got)
	req.Equal("hi2", got[0].Content)
}

func TestReduce_NonAdjacentDuplicatesCollapseToFirst(t *testing.T) {
	req := require.New(t)
	input := []models.Message{
		msg("6", me, "A", "a-newest", 6),
		msg("5", "B", me, "b-newest", 5),
		msg("4", "A", me, "a-middle", 4),
		msg("3", "C", me, "c-only", 3),
		msg("2", "B", me, "b-old", 2),
		msg("1", me, "A", "a-oldest", 1),
	}

	got := ReduceToLatestPerCounterpart(input, me)

	req.Equal([]string{"a-newest", "b-newest", "c-only"}, lo.Map(got, func(m models.Message, _ int) string {
		return m.Content
	}))
}

func TestReduce_UnresolvableMessagesAreSkipped(t *testing.T) {
	req := require.New(t)
	input := []models.Message{
		msg("3", "", "", "orphan", 3),
		msg("2", "A", "", "half", 2),
		msg("1", "A", me, "ok", 1),
	}

	var got []models.Message
	req.NotPanics(func() { got = ReduceToLatestPerCounterpart(input, me) })
	req.Equal([]models.Message{input[2]}, got)
}

func TestReduce_EmptyInput(t *testing.T) {
	req := require.New(t)

	got := ReduceToLatestPerCounterpart(nil, me)
	req.NotNil(got)
	req.Empty(got)

	req.Empty(ReduceToLatestPerCounterpart([]models.Message{}, me))
}

func TestReduce_SelfConversationCollapses(t *testing.T) {
	req := require.New(t)
	input := []models.Message{
		msg("3", me, me, "note to self 2", 3),
		msg("2", "A", me, "hi", 2),
		msg("1", me, me, "note to self 1", 1),
	}

	got := ReduceToLatestPerCounterpart(input, me)

	req.Len(got, 2)
	req.Equal("note to self 2", got[0].Content)
	other, _ := Counterpart(got[0], me)
	req.Equal(me, other)
}

func TestReduce_DoesNotReorderInput(t *testing.T) {
	req := require.New(t)
	// oldest-first input breaks the precondition: the reducer keeps what it sees first
	input := []models.Message{
		msg("1", "A", me, "old", 1),
		msg("2", "A", me, "new", 2),
	}

	got := ReduceToLatestPerCounterpart(input, me)
	req.Equal("old", got[0].Content)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	req := require.New(t)
	input := []models.Message{
		msg("2", "A", me, "b", 2),
		msg("1", "A", me, "a", 1),
	}
	snapshot := append([]models.Message(nil), input...)

	_ = ReduceToLatestPerCounterpart(input, me)
	req.Equal(snapshot, input)
}

// randomInbox builds a newest-first inbox over a small set of counterparts,
// with the occasional unresolvable row.
func randomInbox(r *rand.Rand, n int) []models.Message {
	peers := []string{"A", "B", "C", "D", "E", me}
	out := make([]models.Message, 0, n)
	for i := n; i > 0; i-- {
		peer := peers[r.Intn(len(peers))]
		switch r.Intn(10) {
		case 0:
			out = append(out, msg("x", "", "", "broken", i))
		case 1, 2, 3, 4:
			out = append(out, msg("s", me, peer, "out", i))
		default:
			out = append(out, msg("r", peer, me, "in", i))
		}
	}
	return out
}

func TestReduce_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		input := randomInbox(r, r.Intn(40))
		got := ReduceToLatestPerCounterpart(input, me)

		// first occurrence index per counterpart
		first := map[string]int{}
		for i, m := range input {
			if other, ok := Counterpart(m, me); ok {
				if _, seen := first[other]; !seen {
					first[other] = i
				}
			}
		}

		// cardinality
		require.Len(t, got, len(first))

		// no duplicate counterparts, most-recent wins, order preserved
		prev := -1
		seen := map[string]bool{}
		for _, m := range got {
			other, ok := Counterpart(m, me)
			require.True(t, ok)
			require.False(t, seen[other], "counterpart %s emitted twice", other)
			seen[other] = true

			idx := first[other]
			require.Equal(t, input[idx], m)
			require.Greater(t, idx, prev)
			prev = idx
		}

		// idempotence
		require.Equal(t, got, ReduceToLatestPerCounterpart(got, me))
	}
}

func BenchmarkReduce(b *testing.B) {
	input := randomInbox(rand.New(rand.NewSource(1)), 5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ReduceToLatestPerCounterpart(input, me)
	}
}
