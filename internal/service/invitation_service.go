package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
	"github.com/surya-pratap-s/notes-saas/pkg/email"
	"github.com/surya-pratap-s/notes-saas/pkg/hash"
	"go.uber.org/zap"
)

const (
	referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralLength   = 16
	referralGroup    = 4

	// codeCreateAttempts bounds retries on the astronomically unlikely
	// referral-code collision; the unique index is the backstop.
	codeCreateAttempts = 3
)

type InvitationService struct {
	invitationRepo repository.InvitationRepository
	emails         email.EmailService
	invitationTTL  time.Duration
	log            *zap.Logger
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RedeemRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	ReferralCode string `json:"referralCode" validate:"required"`
}

func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	emails email.EmailService,
	invitationTTL time.Duration,
	log *zap.Logger,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		emails:         emails,
		invitationTTL:  invitationTTL,
		log:            log,
	}
}

// Invite creates a member invitation for the principal's tenant and mails the
// referral code. A failed send never rolls the invitation back; the admin can
// resend.
func (s *InvitationService) Invite(ctx context.Context, principal *domain.Principal, req InviteRequest) (*domain.Invitation, error) {
	now := time.Now()
	invitation := &domain.Invitation{
		TenantID:  principal.Tenant.ID,
		InviterID: principal.User.ID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      domain.RoleMember,
		IsUsed:    false,
		ExpiresAt: now.Add(s.invitationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for attempt := 0; attempt < codeCreateAttempts; attempt++ {
		invitation.ID = uuid.New()
		invitation.ReferralCode, err = generateReferralCode()
		if err != nil {
			return nil, err
		}

		err = s.invitationRepo.Create(ctx, invitation)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			s.log.Error("invitation create failed", zap.Error(err))
			return nil, err
		}
		s.log.Warn("referral code collision, regenerating", zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	s.sendInvitation(ctx, invitation)

	return invitation, nil
}

// List returns the tenant's invitations, newest first, with inviter info.
func (s *InvitationService) List(ctx context.Context, principal *domain.Principal) ([]*domain.InvitationWithInviter, error) {
	return s.invitationRepo.ListByTenant(ctx, principal.Tenant.ID)
}

// Resend refreshes the expiry of an unused invitation and re-sends the email
// with the existing code. The code is never regenerated.
func (s *InvitationService) Resend(ctx context.Context, principal *domain.Principal, invitationID uuid.UUID) error {
	expiresAt := time.Now().Add(s.invitationTTL)
	err := s.invitationRepo.ExtendExpiry(ctx, invitationID, principal.Tenant.ID, expiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}

	s.sendInvitation(ctx, invitation)
	return nil
}

// Cancel deletes an unused invitation belonging to the principal's tenant.
func (s *InvitationService) Cancel(ctx context.Context, principal *domain.Principal, invitationID uuid.UUID) error {
	err := s.invitationRepo.DeleteUnused(ctx, invitationID, principal.Tenant.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvitationNotFound
	}
	return err
}

// Redeem consumes an invitation and creates the member account with the
// invitation's tenant and role. The repository runs the is_used flip and the
// user insert in one transaction, so a code is redeemable exactly once.
func (s *InvitationService) Redeem(ctx context.Context, req RedeemRequest) (*UserDTO, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.ReferralCode)

	invitation, err := s.invitationRepo.GetByCodeAndEmail(ctx, code, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationInvalid
		}
		return nil, err
	}

	if invitation.IsExpired() {
		return nil, ErrInvitationInvalid
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     invitation.TenantID,
		Name:         strings.TrimSpace(req.Name),
		Email:        emailAddr,
		PasswordHash: passwordHash,
		Role:         invitation.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.invitationRepo.Redeem(ctx, invitation.ID, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Lost the compare-and-set to a concurrent redemption, or the
			// invitation expired between lookup and redeem.
			return nil, ErrInvitationInvalid
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		default:
			s.log.Error("invitation redemption failed", zap.String("invitation_id", invitation.ID.String()), zap.Error(err))
			return nil, err
		}
	}

	s.log.Info("invitation redeemed",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("tenant_id", invitation.TenantID.String()),
	)

	return NewUserDTO(user), nil
}

// sendInvitation delivers the referral code; failures are logged only.
func (s *InvitationService) sendInvitation(ctx context.Context, invitation *domain.Invitation) {
	if s.emails == nil {
		return
	}
	if err := s.emails.SendInvitationEmail(ctx, invitation.Email, invitation.ReferralCode); err != nil {
		s.log.Warn("invitation email failed",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Error(err),
		)
	}
}

// generateReferralCode draws 16 characters uniformly from [A-Z0-9] and
// formats them as four space-separated groups of four.
func generateReferralCode() (string, error) {
	max := big.NewInt(int64(len(referralAlphabet)))

	var b strings.Builder
	for i := 0; i < referralLength; i++ {
		if i > 0 && i%referralGroup == 0 {
			b.WriteByte(' ')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(referralAlphabet[n.Int64()])
	}

	return b.String(), nil
}
