package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/models"
	"teamforge/server/internal/repository"

	"github.com/samber/lo"
)

// Service binds the reducer to the message and profile stores.
type Service struct {
	messages repository.MessageRepository
	profiles repository.ProfileRepository
	log      *slog.Logger
	hideSelf bool
}

type Option func(*Service)

// WithHideSelf drops the conversation a user holds with themselves from the inbox.
func WithHideSelf(hide bool) Option {
	return func(s *Service) { s.hideSelf = hide }
}

func NewService(messages repository.MessageRepository, profiles repository.ProfileRepository, log *slog.Logger, opts ...Option) *Service {
	s := &Service{messages: messages, profiles: profiles, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Inbox lists the latest message per counterpart for currentUser. Store
// failures degrade to an empty list (or to entries without profiles); they
// are logged, not returned.
func (s *Service) Inbox(ctx context.Context, currentUser string) []models.Conversation {
	messages, err := s.messages.ListInvolving(ctx, currentUser)
	if err != nil {
		s.log.Error("failed to list messages", "user_id", currentUser, "error", err)
		messages = nil
	}

	latest := ReduceToLatestPerCounterpart(messages, currentUser)
	if s.hideSelf {
		latest = lo.Reject(latest, func(m models.Message, _ int) bool {
			return m.SenderID == currentUser && m.ReceiverID == currentUser
		})
	}
	if len(latest) == 0 {
		return []models.Conversation{}
	}

	ids := lo.Map(latest, func(m models.Message, _ int) string {
		other, _ := Counterpart(m, currentUser)
		return other
	})
	profiles, err := s.profiles.GetMany(ctx, ids)
	if err != nil {
		s.log.Warn("failed to load counterpart profiles", "user_id", currentUser, "error", err)
		profiles = nil
	}

	return lo.Map(latest, func(m models.Message, i int) models.Conversation {
		conv := models.Conversation{CounterpartID: ids[i], LastMessage: m}
		if p, ok := profiles[ids[i]]; ok {
			conv.Counterpart = lo.ToPtr(p.Summary())
		}
		return conv
	})
}

// Thread returns the full exchange between currentUser and other, oldest first.
func (s *Service) Thread(ctx context.Context, currentUser, other string) (models.Thread, error) {
	if other == "" {
		return models.Thread{}, fmt.Errorf("counterpart id: %w", apperr.ErrInvalidInput)
	}

	thread := models.Thread{Messages: []models.Message{}}
	profile, err := s.profiles.Get(ctx, other)
	switch {
	case err == nil:
		thread.Counterpart = lo.ToPtr(profile.Summary())
	case errors.Is(err, apperr.ErrNotFound):
		s.log.Debug("counterpart has no profile", "counterpart_id", other)
	default:
		return models.Thread{}, fmt.Errorf("load counterpart %s: %w", other, err)
	}

	messages, err := s.messages.ListThread(ctx, currentUser, other)
	if err != nil {
		return models.Thread{}, fmt.Errorf("list thread with %s: %w", other, err)
	}
	if messages != nil {
		thread.Messages = messages
	}
	return thread, nil
}

// Send appends a message from sender to receiver. Blank content is rejected
// before the store is touched. clientNonce, when set, is stored with the
// message so a later thread fetch can be matched to the sender's local copy.
func (s *Service) Send(ctx context.Context, sender, receiver, content, clientNonce string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, apperr.ErrBlankContent
	}
	if sender == "" || receiver == "" {
		return models.Message{}, fmt.Errorf("sender and receiver are required: %w", apperr.ErrInvalidInput)
	}

	exists, err := s.profiles.Exists(ctx, receiver)
	if err != nil {
		return models.Message{}, fmt.Errorf("check receiver %s: %w", receiver, err)
	}
	if !exists {
		return models.Message{}, fmt.Errorf("receiver %s: %w", receiver, apperr.ErrNotFound)
	}

	stored, err := s.messages.Append(ctx, models.Message{
		SenderID:    sender,
		ReceiverID:  receiver,
		Content:     content,
		ClientNonce: clientNonce,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("append message: %w", err)
	}
	return stored, nil
}
