package email

import (
	"context"
)

// EmailService delivers outbound notifications. Sends are fire-and-forget
// from the caller's point of view: a failed delivery is logged and never
// rolls back the operation that triggered it.
type EmailService interface {
	// SendInvitationEmail sends the referral code and signup link to the
	// invited address.
	SendInvitationEmail(ctx context.Context, to, referralCode string) error
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	SignupURL string
}
