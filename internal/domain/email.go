package domain

import (
	"context"
	"time"
)

// Mailer sends a single email message.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template with the given data,
// returning subject, html body, and text body.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData is the data for the welcome email template.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// RegistrationConfirmationEmailData is the data for the registration
// confirmation email template.
type RegistrationConfirmationEmailData struct {
	Email           string
	ParticipantName string
	EventTitle      string
	EventStart      time.Time
}

// EmailService sends the application's transactional emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
}
