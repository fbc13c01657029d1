// Package conversation turns the flat, bidirectional message table into
// per-counterpart conversations.
package conversation

import "teamforge/server/internal/models"

// Counterpart returns the other participant of m relative to currentUser.
// The second result is false when the counterpart cannot be determined:
// an id is missing, or m involves currentUser on neither side.
func Counterpart(m models.Message, currentUser string) (string, bool) {
	if currentUser == "" || m.SenderID == "" || m.ReceiverID == "" {
		return "", false
	}
	switch currentUser {
	case m.SenderID:
		return m.ReceiverID, true
	case m.ReceiverID:
		return m.SenderID, true
	default:
		return "", false
	}
}

// ReduceToLatestPerCounterpart keeps the first message seen for each
// counterpart, in first-seen order.
//
// messages must already be sorted newest-first; the first occurrence of a
// counterpart is then its most recent message. No timestamps are compared
// here, so the result is only as correct as the input ordering.
func ReduceToLatestPerCounterpart(messages []models.Message, currentUser string) []models.Message {
	seen := make(map[string]struct{})
	out := make([]models.Message, 0)

	for _, m := range messages {
		other, ok := Counterpart(m, currentUser)
		if !ok {
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, m)
	}
	return out
}
