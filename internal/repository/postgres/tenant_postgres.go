package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
)

type tenantRepository struct {
	db *sqlx.DB
}

// NewTenantRepository creates a new PostgreSQL tenant repository
func NewTenantRepository(db *sqlx.DB) repository.TenantRepository {
	return &tenantRepository{db: db}
}

// CreateWithAdmin inserts the tenant and its first admin user in one
// transaction so a failed admin insert never leaves an orphaned tenant.
func (r *tenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tenantQuery := `
		INSERT INTO tenants (id, name, slug, subscription_plan, created_at, updated_at)
		VALUES (:id, :name, :slug, :subscription_plan, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, tenantQuery, tenant); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	userQuery := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :email, :password_hash, :role, :is_active, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, userQuery, admin); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tenant registration: %w", err)
	}

	return nil
}

// GetByID retrieves a tenant by its ID
func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
		SELECT id, name, slug, subscription_plan, created_at, updated_at
		FROM tenants
		WHERE id = $1`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by id: %w", err)
	}

	return &tenant, nil
}

// GetBySlug retrieves a tenant by its globally unique slug
func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `
		SELECT id, name, slug, subscription_plan, created_at, updated_at
		FROM tenants
		WHERE slug = $1`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}

	return &tenant, nil
}

// UpdatePlan sets the subscription plan of a tenant
func (r *tenantRepository) UpdatePlan(ctx context.Context, id uuid.UUID, plan domain.SubscriptionPlan) error {
	query := `
		UPDATE tenants
		SET subscription_plan = $2,
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, plan)
	if err != nil {
		return fmt.Errorf("failed to update tenant plan: %w", err)
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

// List retrieves all tenants, newest first
func (r *tenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `
		SELECT id, name, slug, subscription_plan, created_at, updated_at
		FROM tenants
		ORDER BY created_at DESC`

	var tenants []*domain.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, nil
}
