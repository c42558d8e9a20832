// internal/notification/models.go

package notification

import (
	"time"
)

// Event types emitted by the matching pipeline.
const (
	EventMatchProposed = "match_proposed"
	EventMatchAccepted = "match_accepted"
)

// Event is a delivered notification, identified by a UUID so retries
// and provider logs can be correlated.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailMessage is the payload handed to an email provider.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage is the payload handed to an SMS provider.
type SMSMessage struct {
	To   string
	Body string
}

// Contact holds a user's deliverable addresses.
type Contact struct {
	UserID      int64   `db:"id"`
	Email       string  `db:"email"`
	DisplayName string  `db:"display_name"`
	Phone       *string `db:"phone"`
}
