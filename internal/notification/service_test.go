// internal/notification/service_test.go

package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	contacts map[int64]*Contact
}

func (r *fakeRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	return r.contacts[userID], nil
}

func phone(s string) *string { return &s }

func newTestDelivery(enableSMS bool) (*service, *MockEmailProvider, *MockSMSProvider) {
	repo := &fakeRepository{contacts: map[int64]*Contact{
		1: {UserID: 1, Email: "ana@example.com", DisplayName: "Ana", Phone: phone("+15550001")},
		2: {UserID: 2, Email: "bo@example.com", DisplayName: "Bo"},
	}}

	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(repo, email, sms, Config{
		EnableEmail: true,
		EnableSMS:   enableSMS,
		SendTimeout: time.Second,
	}).(*service)

	return svc, email, sms
}

func TestDeliverSendsEmailAndSMS(t *testing.T) {
	svc, email, sms := newTestDelivery(true)

	event := &Event{
		ID:      uuid.NewString(),
		Type:    EventMatchProposed,
		UserID:  1,
		Subject: "You have a new travel match request",
	}
	svc.deliver(event, 2, "%s wants to team up with you for an upcoming trip.")

	if len(email.SentEmails) != 1 {
		t.Fatalf("sent %d emails, want 1", len(email.SentEmails))
	}
	sent := email.SentEmails[0]
	if sent.To != "ana@example.com" {
		t.Errorf("email to = %q", sent.To)
	}
	if !strings.Contains(sent.Body, "Bo") {
		t.Errorf("body %q does not name the actor", sent.Body)
	}

	if len(sms.SentMessages) != 1 {
		t.Fatalf("sent %d sms, want 1", len(sms.SentMessages))
	}
	if sms.SentMessages[0].To != "+15550001" {
		t.Errorf("sms to = %q", sms.SentMessages[0].To)
	}
}

func TestDeliverSkipsChannelsWithoutAddress(t *testing.T) {
	svc, email, sms := newTestDelivery(true)

	// User 2 has no phone number on file.
	event := &Event{ID: uuid.NewString(), Type: EventMatchAccepted, UserID: 2, Subject: "Your travel match was accepted"}
	svc.deliver(event, 1, "%s accepted your match.")

	if len(email.SentEmails) != 1 {
		t.Errorf("sent %d emails, want 1", len(email.SentEmails))
	}
	if len(sms.SentMessages) != 0 {
		t.Errorf("sent %d sms, want 0", len(sms.SentMessages))
	}
}

func TestDeliverUnknownRecipient(t *testing.T) {
	svc, email, sms := newTestDelivery(true)

	event := &Event{ID: uuid.NewString(), Type: EventMatchProposed, UserID: 99, Subject: "x"}
	svc.deliver(event, 1, "%s")

	if len(email.SentEmails) != 0 || len(sms.SentMessages) != 0 {
		t.Error("nothing should be sent for an unknown recipient")
	}
}

func TestDeliverRespectsDisabledSMS(t *testing.T) {
	svc, _, sms := newTestDelivery(false)

	event := &Event{ID: uuid.NewString(), Type: EventMatchProposed, UserID: 1, Subject: "x"}
	svc.deliver(event, 2, "%s")

	if len(sms.SentMessages) != 0 {
		t.Errorf("sms disabled but %d sent", len(sms.SentMessages))
	}
}
