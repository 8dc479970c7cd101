package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// ListByTenant returns the sanitized users of the principal's tenant.
func (s *UserService) ListByTenant(ctx context.Context, principal *domain.Principal) ([]*UserDTO, error) {
	users, err := s.userRepo.ListByTenant(ctx, principal.Tenant.ID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*UserDTO, len(users))
	for i, user := range users {
		dtos[i] = NewUserDTO(user)
	}

	return dtos, nil
}

// ToggleStatus flips the activation flag of another user in the principal's
// tenant. Admins cannot toggle themselves; a user in another tenant is
// reported as not found.
func (s *UserService) ToggleStatus(ctx context.Context, principal *domain.Principal, userID string) (*UserDTO, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if id == principal.User.ID {
		return nil, ErrSelfToggle
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.TenantID != principal.Tenant.ID {
		return nil, ErrUserNotFound
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.SetActive(ctx, user.ID, user.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.Error("toggle status failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	s.log.Info("user status toggled",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_active", user.IsActive),
	)

	return NewUserDTO(user), nil
}
