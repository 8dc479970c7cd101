package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims embedded in a session token. The role claim is
// advisory only: the auth middleware re-fetches user and tenant from storage
// on every request, so deactivation and role changes take effect immediately.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Role     Role      `json:"role"`
}
