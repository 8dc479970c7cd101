package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
)

type invitationRepository struct {
	db *sqlx.DB
}

// NewInvitationRepository creates a new PostgreSQL invitation repository
func NewInvitationRepository(db *sqlx.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

// Create inserts a new invitation. The unique index on referral_code is the
// backstop against code collisions; violations map to ErrDuplicate so the
// caller can regenerate and retry.
func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	query := `
		INSERT INTO invitations (
			id, tenant_id, inviter_id, email, role, referral_code,
			is_used, expires_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :inviter_id, :email, :role, :referral_code,
			:is_used, :expires_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, invitation)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

// GetByID retrieves an invitation by its ID
func (r *invitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `
		SELECT id, tenant_id, inviter_id, email, role, referral_code,
			   is_used, expires_at, created_at, updated_at
		FROM invitations
		WHERE id = $1`

	var invitation domain.Invitation
	err := r.db.GetContext(ctx, &invitation, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return &invitation, nil
}

// GetByCodeAndEmail retrieves an unused invitation matching the referral code
// and the invitee's email
func (r *invitationRepository) GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Invitation, error) {
	query := `
		SELECT id, tenant_id, inviter_id, email, role, referral_code,
			   is_used, expires_at, created_at, updated_at
		FROM invitations
		WHERE referral_code = $1 AND email = $2 AND is_used = false`

	var invitation domain.Invitation
	err := r.db.GetContext(ctx, &invitation, query, code, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation by code: %w", err)
	}

	return &invitation, nil
}

// ListByTenant retrieves a tenant's invitations joined with inviter display
// info, newest first
func (r *invitationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.InvitationWithInviter, error) {
	query := `
		SELECT i.id, i.tenant_id, i.inviter_id, i.email, i.role, i.referral_code,
			   i.is_used, i.expires_at, i.created_at, i.updated_at,
			   u.name AS inviter_name, u.email AS inviter_email
		FROM invitations i
		JOIN users u ON u.id = i.inviter_id
		WHERE i.tenant_id = $1
		ORDER BY i.created_at DESC`

	var invitations []*domain.InvitationWithInviter
	if err := r.db.SelectContext(ctx, &invitations, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// ExtendExpiry moves the expiry of an unused invitation. The tenant and
// is_used guards live in the WHERE clause so a foreign or consumed invitation
// reports ErrNotFound without a prior read.
func (r *invitationRepository) ExtendExpiry(ctx context.Context, id, tenantID uuid.UUID, expiresAt time.Time) error {
	query := `
		UPDATE invitations
		SET expires_at = $3,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND is_used = false`

	result, err := r.db.ExecContext(ctx, query, id, tenantID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to extend invitation expiry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteUnused removes an unused invitation belonging to the tenant
func (r *invitationRepository) DeleteUnused(ctx context.Context, id, tenantID uuid.UUID) error {
	query := `DELETE FROM invitations WHERE id = $1 AND tenant_id = $2 AND is_used = false`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Redeem consumes the invitation and creates the member account in a single
// transaction. The compare-and-set on is_used serializes concurrent
// redemptions of the same code: exactly one transaction flips the flag, every
// other one sees zero rows and aborts.
func (r *invitationRepository) Redeem(ctx context.Context, invitationID uuid.UUID, user *domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	casQuery := `
		UPDATE invitations
		SET is_used = true,
			updated_at = NOW()
		WHERE id = $1 AND is_used = false AND expires_at > NOW()`

	result, err := tx.ExecContext(ctx, casQuery, invitationID)
	if err != nil {
		return fmt.Errorf("failed to mark invitation used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	userQuery := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :email, :password_hash, :role, :is_active, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create invited user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit redemption: %w", err)
	}

	return nil
}
