package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// RegistrationConfirmedEmailData holds data for the registration confirmation email.
type RegistrationConfirmedEmailData struct {
	Email      string
	Name       string
	EventTitle string
	EventPlace string
	StartDate  time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendRegistrationConfirmed(ctx context.Context, data *RegistrationConfirmedEmailData) error
}
