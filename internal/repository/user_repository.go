package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByEmail looks up a user by lowercased email. Email is only unique
	// within a tenant; when the same address exists in several tenants the
	// oldest account wins, matching login behavior.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
