package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
	"github.com/surya-pratap-s/notes-saas/pkg/hash"
	"github.com/surya-pratap-s/notes-saas/pkg/jwt"
	"go.uber.org/zap"
)

type TenantService struct {
	tenantRepo repository.TenantRepository
	tokens     *jwt.TokenService
	log        *zap.Logger
}

type RegisterRequest struct {
	TenantName string `json:"tenantName" validate:"required"`
	TenantSlug string `json:"tenantSlug" validate:"required,min=2,max=64"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
}

func NewTenantService(
	tenantRepo repository.TenantRepository,
	tokens *jwt.TokenService,
	log *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		tokens:     tokens,
		log:        log,
	}
}

// Register creates a tenant on the free plan together with its first admin
// user and logs the admin in. Both rows are written in one transaction, so a
// failed admin insert cannot leave an orphaned tenant behind.
func (s *TenantService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	slug := strings.ToLower(strings.TrimSpace(req.TenantSlug))

	if _, err := s.tenantRepo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("slug lookup failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.TenantName),
		Slug:      slug,
		Plan:      domain.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}

	admin := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin); err != nil {
		// The unique index is the backstop against a slug created between
		// the pre-check and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		s.log.Error("tenant registration failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	s.log.Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
	)

	token, err := s.tokens.Generate(admin)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  NewUserDTO(admin),
	}, nil
}

// Upgrade flips the tenant to the pro plan. Upgrading an already-pro tenant
// is a no-op success.
func (s *TenantService) Upgrade(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	if tenant.Plan == domain.PlanPro {
		return tenant, nil
	}

	if err := s.tenantRepo.UpdatePlan(ctx, tenantID, domain.PlanPro); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		s.log.Error("tenant upgrade failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	tenant.Plan = domain.PlanPro
	s.log.Info("tenant upgraded to pro", zap.String("tenant_id", tenantID.String()))
	return tenant, nil
}

// Get retrieves a tenant by ID.
func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

// ListAll returns every tenant for the public directory.
func (s *TenantService) ListAll(ctx context.Context) ([]*domain.Tenant, error) {
	return s.tenantRepo.List(ctx)
}
