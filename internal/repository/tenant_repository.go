package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
)

type TenantRepository interface {
	// CreateWithAdmin atomically creates a tenant and its first admin user.
	// Either both rows exist afterwards or neither does.
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan domain.SubscriptionPlan) error
	List(ctx context.Context) ([]*domain.Tenant, error)
}
