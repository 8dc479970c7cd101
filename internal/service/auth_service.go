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

// TokenRevoker abstracts the Redis-backed blacklist so the auth service can
// run without Redis in tests. A nil revoker disables revocation checks.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	tokens     *jwt.TokenService
	revoker    TokenRevoker
	log        *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO is the sanitized user shape returned to clients.
type UserDTO struct {
	ID       uuid.UUID   `json:"id"`
	TenantID uuid.UUID   `json:"tenant_id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

func NewUserDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		ID:       user.ID,
		TenantID: user.TenantID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	tokens *jwt.TokenService,
	revoker TokenRevoker,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		tokens:     tokens,
		revoker:    revoker,
		log:        log,
	}
}

// Login verifies an email/password pair and issues a session token. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.Error("login lookup failed", zap.Error(err))
		return nil, err
	}

	valid, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.log.Error("password verification failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error("token generation failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  NewUserDTO(user),
	}, nil
}

// Resolve turns a bearer token into an authenticated principal. User and
// tenant are re-fetched from storage on every call so deactivation and role
// changes take effect immediately, even while the token is still valid.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, token)
		if err != nil {
			s.log.Error("blacklist check failed", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &domain.Principal{User: user, Tenant: tenant}, nil
}

// Logout revokes the presented token for its remaining lifetime. Without a
// revoker configured this is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.revoker == nil {
		return nil
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return ErrInvalidToken
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.revoker.Revoke(ctx, token, expiresAt)
}
