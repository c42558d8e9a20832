// internal/notification/service.go

package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Service fans match lifecycle events out to email and SMS providers.
// Delivery is asynchronous: failures are logged, never surfaced to the
// caller, so a provider outage cannot block a match transition.
type Service interface {
	MatchProposed(ctx context.Context, toUserID, fromUserID int64)
	MatchAccepted(ctx context.Context, toUserID, byUserID int64)
}

type Config struct {
	EnableEmail bool
	EnableSMS   bool
	SendTimeout time.Duration
}

type service struct {
	repo   Repository
	email  EmailProvider
	sms    SMSProvider
	config Config
}

func NewService(repo Repository, email EmailProvider, sms SMSProvider, config Config) Service {
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}
	return &service{
		repo:   repo,
		email:  email,
		sms:    sms,
		config: config,
	}
}

func (s *service) MatchProposed(ctx context.Context, toUserID, fromUserID int64) {
	event := &Event{
		ID:        uuid.NewString(),
		Type:      EventMatchProposed,
		UserID:    toUserID,
		Subject:   "You have a new travel match request",
		CreatedAt: time.Now(),
	}
	go s.deliver(event, fromUserID, "%s wants to team up with you for an upcoming trip. Open the app to respond.")
}

func (s *service) MatchAccepted(ctx context.Context, toUserID, byUserID int64) {
	event := &Event{
		ID:        uuid.NewString(),
		Type:      EventMatchAccepted,
		UserID:    toUserID,
		Subject:   "Your travel match was accepted",
		CreatedAt: time.Now(),
	}
	go s.deliver(event, byUserID, "%s accepted your match. You can now chat and plan the trip together.")
}

func (s *service) deliver(event *Event, actorID int64, bodyFormat string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
	defer cancel()

	recipient, err := s.repo.GetContact(ctx, event.UserID)
	if err != nil || recipient == nil {
		log.Printf("notification %s: failed to load recipient %d: %v", event.ID, event.UserID, err)
		return
	}

	actorName := "Someone"
	if actor, err := s.repo.GetContact(ctx, actorID); err == nil && actor != nil && actor.DisplayName != "" {
		actorName = actor.DisplayName
	}
	event.Body = fmt.Sprintf(bodyFormat, actorName)

	if s.config.EnableEmail && s.email != nil && recipient.Email != "" {
		err := s.email.SendEmail(ctx, &EmailMessage{
			To:      recipient.Email,
			Subject: event.Subject,
			Body:    event.Body,
		})
		if err != nil {
			log.Printf("notification %s: email to user %d failed: %v", event.ID, event.UserID, err)
		}
	}

	if s.config.EnableSMS && s.sms != nil && recipient.Phone != nil && *recipient.Phone != "" {
		err := s.sms.SendSMS(ctx, &SMSMessage{
			To:   *recipient.Phone,
			Body: event.Subject,
		})
		if err != nil {
			log.Printf("notification %s: sms to user %d failed: %v", event.ID, event.UserID, err)
		}
	}
}
