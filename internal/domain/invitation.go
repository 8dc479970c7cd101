package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is a single-use, time-boxed referral that binds an email and a
// role to a tenant. The referral code is generated once at creation and is
// never regenerated, even on resend.
type Invitation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	InviterID    uuid.UUID `json:"inviter_id" db:"inviter_id"`
	Email        string    `json:"email" db:"email"`
	Role         Role      `json:"role" db:"role"`
	ReferralCode string    `json:"referral_code" db:"referral_code"`
	IsUsed       bool      `json:"is_used" db:"is_used"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsExpired reports whether the invitation can no longer be redeemed due to age.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// InvitationWithInviter is an invitation joined with the inviter's display info,
// used by the admin listing.
type InvitationWithInviter struct {
	Invitation
	InviterName  string `json:"inviter_name" db:"inviter_name"`
	InviterEmail string `json:"inviter_email" db:"inviter_email"`
}
