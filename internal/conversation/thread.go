package conversation

import (
	"teamforge/server/internal/apperr"
	"teamforge/server/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type pendingMessage struct {
	nonce   string
	message models.Message
}

// Thread is the locally held view of one open conversation. It owns at most
// one pending message: a send that has been shown to the user but not yet
// acknowledged by the store. The pending entry is replaced by the stored
// record on Confirm, never merged with it.
//
// A Thread is not safe for concurrent use.
type Thread struct {
	confirmed []models.Message
	pending   *pendingMessage
	// settled is the nonce of a pending entry that a Refresh found already
	// stored; the late Confirm for it is then accepted as a no-op swap.
	settled string
}

// NewThread starts a thread from an oldest-first snapshot of the store.
func NewThread(messages []models.Message) *Thread {
	t := &Thread{}
	t.Refresh(messages)
	return t
}

// Refresh replaces the confirmed messages with a new oldest-first snapshot.
// When the snapshot already holds the stored record of the pending entry
// (matched by client nonce), the pending entry is dropped in its favour.
func (t *Thread) Refresh(messages []models.Message) {
	t.confirmed = append([]models.Message(nil), messages...)
	if t.pending == nil {
		return
	}
	nonce := t.pending.nonce
	if lo.ContainsBy(t.confirmed, func(m models.Message) bool { return m.ClientNonce == nonce }) {
		t.pending = nil
		t.settled = nonce
	}
}

// Stage puts m in the pending slot and returns the nonce that identifies it.
// The nonce is also set on the staged message.
func (t *Thread) Stage(m models.Message) (string, error) {
	if t.pending != nil {
		return "", apperr.ErrPendingInFlight
	}
	nonce := uuid.NewString()
	m.ClientNonce = nonce
	t.pending = &pendingMessage{nonce: nonce, message: m}
	return nonce, nil
}

// Confirm swaps the pending entry for the authoritative record. It reports
// false when nonce names neither the pending entry nor one already settled
// by Refresh. A record already present in the confirmed list (a refresh raced
// the acknowledgement) is not added twice.
func (t *Thread) Confirm(nonce string, stored models.Message) bool {
	switch {
	case t.pending != nil && t.pending.nonce == nonce:
		t.pending = nil
	case nonce != "" && nonce == t.settled:
	default:
		return false
	}
	t.settled = ""

	exists := stored.ID != "" && lo.ContainsBy(t.confirmed, func(m models.Message) bool {
		return m.ID == stored.ID
	})
	if !exists {
		t.confirmed = append(t.confirmed, stored)
	}
	return true
}

// Discard drops the pending entry after a failed send.
func (t *Thread) Discard(nonce string) bool {
	if t.pending == nil || t.pending.nonce != nonce {
		return false
	}
	t.pending = nil
	return true
}

// Pending returns the message waiting for acknowledgement, if any.
func (t *Thread) Pending() (models.Message, bool) {
	if t.pending == nil {
		return models.Message{}, false
	}
	return t.pending.message, true
}

// Messages returns the confirmed messages followed by the pending one.
func (t *Thread) Messages() []models.Message {
	out := make([]models.Message, 0, len(t.confirmed)+1)
	out = append(out, t.confirmed...)
	if t.pending != nil {
		out = append(out, t.pending.message)
	}
	return out
}
