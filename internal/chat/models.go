// internal/chat/models.go

package chat

import (
	"time"
)

// Message is a persisted chat message between two matched users.
// Ordering within a conversation is store-assigned: timestamps are
// non-decreasing and ties resolve by insertion order (id).
type Message struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ConversationSummary is one entry in a user's conversation list.
type ConversationSummary struct {
	CounterpartID int64      `json:"counterpart_id"`
	Username      string     `json:"username"`
	DisplayName   string     `json:"display_name"`
	LastMessage   *string    `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}
