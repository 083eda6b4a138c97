package service

import (
	"context"
	"fmt"
	"time"

	"mewayz-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
	baseURL  string // public dashboard URL used to build invitation links
}

func NewEmailService(apiKey, from, fromName, baseURL string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		baseURL:  baseURL,
	}
}

func (s *emailService) SendInvitation(ctx context.Context, email, workspaceName, inviterName, token, personalMessage string, expiresAt time.Time) error {
	subject := fmt.Sprintf("You're invited to join %s", workspaceName)

	link := fmt.Sprintf("%s/invitations/%s", s.baseURL, token)
	body := fmt.Sprintf("Hello,\n\n%s has invited you to join the workspace %s.\n", inviterName, workspaceName)
	if personalMessage != "" {
		body += fmt.Sprintf("\n%q\n", personalMessage)
	}
	body += fmt.Sprintf("\nAccept the invitation here:\n\n%s\n\nThis invitation expires on %s.\n\nBest regards,\nThe Mewayz Team",
		link, expiresAt.Format("January 2, 2006"))

	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendInvitationAccepted(ctx context.Context, inviterEmail, memberEmail, workspaceName string) error {
	subject := fmt.Sprintf("%s joined %s", memberEmail, workspaceName)
	body := fmt.Sprintf("Hello,\n\n%s accepted your invitation and is now a member of %s.\n\nBest regards,\nThe Mewayz Team",
		memberEmail, workspaceName)
	return s.send(ctx, inviterEmail, subject, body)
}

func (s *emailService) send(ctx context.Context, to, subject, plainText string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
