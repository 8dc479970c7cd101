package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendEmailService implements EmailService using Resend
type ResendEmailService struct {
	client *resend.Client
	config *EmailConfig
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config *EmailConfig) (*ResendEmailService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	client := resend.NewClient(config.APIKey)

	return &ResendEmailService{
		client: client,
		config: config,
	}, nil
}

// SendInvitationEmail sends the referral code and signup link to the invited address
func (s *ResendEmailService) SendInvitationEmail(ctx context.Context, to, referralCode string) error {
	htmlContent := InvitationEmailTemplate(to, referralCode, s.config.SignupURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: "You are invited to join a workspace",
		Html:    htmlContent,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	log.Printf("Invitation email sent to %s (ID: %s)", to, sent.Id)
	return nil
}
