package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends learner-facing notifications. All callers treat a send
// failure as log-only; it never blocks or fails the triggering operation.
type EmailService interface {
	SendCertificateIssued(ctx context.Context, email, name, courseTitle, certificateNumber, certificateURL string) error
}

type sendgridEmailService struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendgridEmailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *sendgridEmailService) SendCertificateIssued(ctx context.Context, email, name, courseTitle, certificateNumber, certificateURL string) error {
	to := sgmail.NewEmail(name, email)
	subject := fmt.Sprintf("Your certificate for %s", courseTitle)

	plain := fmt.Sprintf(
		"Congratulations %s!\n\nYou have completed %s.\nCertificate number: %s\nView it here: %s\n",
		name, courseTitle, certificateNumber, certificateURL,
	)
	html := fmt.Sprintf(
		"<p>Congratulations %s!</p><p>You have completed <strong>%s</strong>.</p><p>Certificate number: %s</p><p><a href=%q>View your certificate</a></p>",
		name, courseTitle, certificateNumber, certificateURL,
	)

	message := sgmail.NewSingleEmail(s.from, subject, to, plain, html)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// consoleEmailService logs instead of sending; used in development and when
// no sendgrid key is configured.
type consoleEmailService struct {
	logger *slog.Logger
}

func NewConsoleEmailService(logger *slog.Logger) EmailService {
	return &consoleEmailService{logger: logger}
}

func (s *consoleEmailService) SendCertificateIssued(ctx context.Context, email, name, courseTitle, certificateNumber, certificateURL string) error {
	s.logger.Info("certificate email (console)",
		"to", email,
		"name", name,
		"course", courseTitle,
		"certificate_number", certificateNumber,
		"certificate_url", certificateURL,
	)
	return nil
}
