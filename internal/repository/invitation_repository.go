package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
)

type InvitationRepository interface {
	// Create inserts a new invitation. A referral-code collision surfaces as
	// ErrDuplicate so the caller can regenerate and retry.
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	// GetByCodeAndEmail finds an unused invitation matching the referral code
	// and the invitee's lowercased email.
	GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Invitation, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.InvitationWithInviter, error)
	// ExtendExpiry moves the expiry of an unused invitation within the given
	// tenant; ErrNotFound when the invitation is missing, foreign or used.
	ExtendExpiry(ctx context.Context, id, tenantID uuid.UUID, expiresAt time.Time) error
	// DeleteUnused removes an unused invitation within the given tenant;
	// ErrNotFound when the invitation is missing, foreign or used.
	DeleteUnused(ctx context.Context, id, tenantID uuid.UUID) error
	// Redeem marks the invitation used and creates the member account in one
	// transaction. The is_used flip is a compare-and-set: a concurrent redeem
	// of the same code loses and gets ErrNotFound. ErrDuplicate when the email
	// is already registered in the tenant.
	Redeem(ctx context.Context, invitationID uuid.UUID, user *domain.User) error
}
