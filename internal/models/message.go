package models

import "time"

// Message is a directed message between two users. Rows whose sender or
// receiver profile was deleted come back with an empty id on that side.
type Message struct {
	ID         string    `json:"id" db:"id"`
	Seq        int64     `json:"seq" db:"seq"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	// ClientNonce is the sender-chosen id of the local copy shown while the
	// send was in flight. Empty for messages sent without one.
	ClientNonce string `json:"clientNonce,omitempty" db:"client_nonce"`
}

// Conversation is one row of the inbox: the latest message exchanged with a
// counterpart. Counterpart is nil when the counterpart has no profile.
type Conversation struct {
	CounterpartID string          `json:"counterpartId"`
	Counterpart   *ProfileSummary `json:"counterpart,omitempty"`
	LastMessage   Message         `json:"lastMessage"`
}

// Thread is the full exchange with one counterpart, oldest first.
type Thread struct {
	Counterpart *ProfileSummary `json:"counterpart,omitempty"`
	Messages    []Message       `json:"messages"`
}
