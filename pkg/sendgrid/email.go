package sendgrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
}

type Option func(*emailService)

// WithBaseURL points the client at a different mail/send endpoint.
func WithBaseURL(url string) Option {
	return func(e *emailService) {
		e.client.Request.BaseURL = url
	}
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string, opts ...Option) EmailService {
	e := &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	if req.To == "" {
		return errors.New("email recipient is required")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", req.To))
	personalization.Subject = req.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", req.Content))
	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
