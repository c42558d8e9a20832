// internal/notification/providers.go

package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type EmailProvider interface {
	SendEmail(ctx context.Context, message *EmailMessage) error
}

type SMSProvider interface {
	SendSMS(ctx context.Context, message *SMSMessage) error
}

// SMTPEmailProvider sends plain text mail over SMTP.
type SMTPEmailProvider struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPEmailProvider(host, port, username, password, from string) EmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (p *SMTPEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	payload := fmt.Sprintf("From: %s\r\n", p.from)
	payload += fmt.Sprintf("To: %s\r\n", message.To)
	payload += fmt.Sprintf("Subject: %s\r\n", message.Subject)
	payload += "\r\n"
	payload += message.Body

	auth := smtp.PlainAuth("", p.username, p.password, p.host)
	addr := fmt.Sprintf("%s:%s", p.host, p.port)

	if err := smtp.SendMail(addr, auth, p.from, []string{message.To}, []byte(payload)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendGridEmailProvider sends mail through the SendGrid API.
type SendGridEmailProvider struct {
	apiKey string
	from   string
}

func NewSendGridEmailProvider(apiKey, from string) EmailProvider {
	return &SendGridEmailProvider{
		apiKey: apiKey,
		from:   from,
	}
}

func (p *SendGridEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	from := mail.NewEmail("TravelMatch", p.from)
	to := mail.NewEmail("", message.To)

	email := mail.NewSingleEmail(from, message.Subject, to, message.Body, "")
	client := sendgrid.NewSendClient(p.apiKey)

	response, err := client.Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// TwilioSMSProvider sends SMS through the Twilio API.
type TwilioSMSProvider struct {
	client      *twilio.RestClient
	phoneNumber string
}

func NewTwilioSMSProvider(accountSID, authToken, phoneNumber string) SMSProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSProvider{
		client:      client,
		phoneNumber: phoneNumber,
	}
}

func (p *TwilioSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(message.To)
	params.SetFrom(p.phoneNumber)
	params.SetBody(message.Body)

	if _, err := p.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}
	return nil
}

// MockEmailProvider records sent mail for tests.
type MockEmailProvider struct {
	SentEmails []EmailMessage
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{SentEmails: make([]EmailMessage, 0)}
}

func (p *MockEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	p.SentEmails = append(p.SentEmails, *message)
	return nil
}

// MockSMSProvider records sent SMS for tests.
type MockSMSProvider struct {
	SentMessages []SMSMessage
}

func NewMockSMSProvider() *MockSMSProvider {
	return &MockSMSProvider{SentMessages: make([]SMSMessage, 0)}
}

func (p *MockSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	p.SentMessages = append(p.SentMessages, *message)
	return nil
}
