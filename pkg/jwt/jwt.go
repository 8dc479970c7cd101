package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
)

// TokenService issues and verifies HS256 session tokens carrying the user,
// tenant and role of a principal.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewTokenService(secret string, expiry time.Duration, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}, nil
}

// Generate signs a session token for the user with the configured expiry.
func (s *TokenService) Generate(user *domain.User) (string, error) {
	now := time.Now()

	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the signature and expiry of a token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
