package conversation

import (
	"context"
	"errors"
	"testing"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/logger"
	"teamforge/server/internal/mocks"
	"teamforge/server/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *mocks.MockMessageRepository, *mocks.MockProfileRepository) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockMessageRepository(ctrl)
	profiles := mocks.NewMockProfileRepository(ctrl)
	return NewService(messages, profiles, logger.Discard(), opts...), messages, profiles
}

func TestService_Inbox(t *testing.T) {
	ctx := context.Background()

	t.Run("should reduce and attach counterpart profiles", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		input := []models.Message{
			msg("3", "A", me, "hi2", 3),
			msg("2", me, "B", "yo", 2),
			msg("1", "A", me, "hi1", 1),
		}
		messages.EXPECT().ListInvolving(ctx, me).Return(input, nil)
		profiles.EXPECT().GetMany(ctx, []string{"A", "B"}).Return(map[string]models.Profile{
			"A": {ID: "A", FullName: "Alice"},
		}, nil)

		got := svc.Inbox(ctx, me)

		req.Len(got, 2)
		req.Equal("A", got[0].CounterpartID)
		req.Equal("hi2", got[0].LastMessage.Content)
		req.NotNil(got[0].Counterpart)
		req.Equal("Alice", got[0].Counterpart.FullName)
		req.Equal("B", got[1].CounterpartID)
		req.Nil(got[1].Counterpart, "missing profile must not drop the conversation")
	})

	t.Run("should return an empty list when the store fails", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _ := newTestService(t)
		messages.EXPECT().ListInvolving(ctx, me).Return(nil, errors.New("connection refused"))

		got := svc.Inbox(ctx, me)

		req.NotNil(got)
		req.Empty(got)
	})

	t.Run("should keep entries when profiles cannot be loaded", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		messages.EXPECT().ListInvolving(ctx, me).Return([]models.Message{msg("1", "A", me, "hi", 1)}, nil)
		profiles.EXPECT().GetMany(ctx, []string{"A"}).Return(nil, errors.New("timeout"))

		got := svc.Inbox(ctx, me)

		req.Len(got, 1)
		req.Nil(got[0].Counterpart)
	})

	t.Run("should keep the self conversation by default", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		messages.EXPECT().ListInvolving(ctx, me).Return([]models.Message{
			msg("2", me, me, "memo", 2),
			msg("1", "A", me, "hi", 1),
		}, nil)
		profiles.EXPECT().GetMany(ctx, []string{me, "A"}).Return(map[string]models.Profile{}, nil)

		req.Len(svc.Inbox(ctx, me), 2)
	})

	t.Run("should hide the self conversation when configured", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t, WithHideSelf(true))
		messages.EXPECT().ListInvolving(ctx, me).Return([]models.Message{
			msg("2", me, me, "memo", 2),
			msg("1", "A", me, "hi", 1),
		}, nil)
		profiles.EXPECT().GetMany(ctx, []string{"A"}).Return(map[string]models.Profile{}, nil)

		got := svc.Inbox(ctx, me)
		req.Len(got, 1)
		req.Equal("A", got[0].CounterpartID)
	})

	t.Run("should not query profiles for an empty inbox", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		messages.EXPECT().ListInvolving(ctx, me).Return([]models.Message{}, nil)
		profiles.EXPECT().GetMany(gomock.Any(), gomock.Any()).Times(0)

		req.Empty(svc.Inbox(ctx, me))
	})
}

func TestService_Thread(t *testing.T) {
	ctx := context.Background()

	t.Run("should return messages oldest first with the counterpart", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		history := []models.Message{msg("1", "A", me, "hi", 1), msg("2", me, "A", "yo", 2)}
		profiles.EXPECT().Get(ctx, "A").Return(models.Profile{ID: "A", FullName: "Alice"}, nil)
		messages.EXPECT().ListThread(ctx, me, "A").Return(history, nil)

		thread, err := svc.Thread(ctx, me, "A")

		req.NoError(err)
		req.Equal(history, thread.Messages)
		req.Equal("Alice", thread.Counterpart.FullName)
	})

	t.Run("should tolerate a counterpart without profile", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		profiles.EXPECT().Get(ctx, "ghost").Return(models.Profile{}, apperr.ErrNotFound)
		messages.EXPECT().ListThread(ctx, me, "ghost").Return(nil, nil)

		thread, err := svc.Thread(ctx, me, "ghost")

		req.NoError(err)
		req.Nil(thread.Counterpart)
		req.NotNil(thread.Messages)
		req.Empty(thread.Messages)
	})

	t.Run("should propagate store failures", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		boom := errors.New("boom")
		profiles.EXPECT().Get(ctx, "A").Return(models.Profile{ID: "A"}, nil)
		messages.EXPECT().ListThread(ctx, me, "A").Return(nil, boom)

		_, err := svc.Thread(ctx, me, "A")
		req.ErrorIs(err, boom)
	})

	t.Run("should reject an empty counterpart", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Thread(ctx, me, "")
		require.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should append a message for an existing receiver", func(t *testing.T) {
		req := require.New(t)
		svc, messages, profiles := newTestService(t)
		stored := msg("9", me, "A", "hello", 9)
		profiles.EXPECT().Exists(ctx, "A").Return(true, nil)
		messages.EXPECT().
			Append(ctx, models.Message{SenderID: me, ReceiverID: "A", Content: "hello", ClientNonce: "n-1"}).
			Return(stored, nil)

		got, err := svc.Send(ctx, me, "A", "hello", "n-1")

		req.NoError(err)
		req.Equal(stored, got)
	})

	for _, content := range []string{"", "   ", "\n\t "} {
		t.Run("should reject blank content "+strconvQuote(content), func(t *testing.T) {
			svc, messages, profiles := newTestService(t)
			profiles.EXPECT().Exists(gomock.Any(), gomock.Any()).Times(0)
			messages.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.Send(ctx, me, "A", content, "")
			require.ErrorIs(t, err, apperr.ErrBlankContent)
		})
	}

	t.Run("should report an unknown receiver", func(t *testing.T) {
		svc, messages, profiles := newTestService(t)
		profiles.EXPECT().Exists(ctx, "nobody").Return(false, nil)
		messages.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Send(ctx, me, "nobody", "hi", "")
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func strconvQuote(s string) string {
	return "[" + s + "]"
}
