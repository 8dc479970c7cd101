package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository/memory"
	"github.com/surya-pratap-s/notes-saas/pkg/hash"
	"github.com/surya-pratap-s/notes-saas/pkg/jwt"
)

const testPassword = "password123"

func testTokens(t *testing.T) *jwt.TokenService {
	t.Helper()
	tokens, err := jwt.NewTokenService("test-secret", time.Hour, "notes-saas")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func seedTenant(t *testing.T, store *memory.Store, slug string, plan domain.SubscriptionPlan) *domain.Tenant {
	t.Helper()
	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New(),
		Name:      slug,
		Slug:      slug,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         "Admin",
		Email:        "admin@" + slug + ".test",
		PasswordHash: mustHash(t),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Tenants().CreateWithAdmin(context.Background(), tenant, admin); err != nil {
		t.Fatalf("seed tenant %q: %v", slug, err)
	}
	return tenant
}

func seedUser(t *testing.T, store *memory.Store, tenant *domain.Tenant, email string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Name:         "User " + email,
		Email:        email,
		PasswordHash: mustHash(t),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %q: %v", email, err)
	}
	return user
}

func adminOf(t *testing.T, store *memory.Store, tenant *domain.Tenant) *domain.User {
	t.Helper()
	users, err := store.Users().ListByTenant(context.Background(), tenant.ID)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, user := range users {
		if user.Role == domain.RoleAdmin {
			return user
		}
	}
	t.Fatalf("tenant %q has no admin", tenant.Slug)
	return nil
}

func principalFor(user *domain.User, tenant *domain.Tenant) *domain.Principal {
	return &domain.Principal{User: user, Tenant: tenant}
}

// mustHash caches the argon2 digest of testPassword so each test does not pay
// for a fresh key derivation.
var (
	hashOnce   sync.Once
	cachedHash string
	hashErr    error
)

func mustHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		cachedHash, hashErr = hash.HashPassword(testPassword)
	})
	if hashErr != nil {
		t.Fatalf("HashPassword: %v", hashErr)
	}
	return cachedHash
}

// stubRevoker is an in-memory TokenRevoker.
type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = expiresAt
	return nil
}

func (r *stubRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[token]
	return ok, nil
}

// captureEmail records invitation emails instead of sending them.
type captureEmail struct {
	mu   sync.Mutex
	sent []capturedInvite
}

type capturedInvite struct {
	To           string
	ReferralCode string
}

func (c *captureEmail) SendInvitationEmail(ctx context.Context, to, referralCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, capturedInvite{To: to, ReferralCode: referralCode})
	return nil
}

func (c *captureEmail) last(t *testing.T) capturedInvite {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		t.Fatal("no invitation email captured")
	}
	return c.sent[len(c.sent)-1]
}

func nopLogger() *zap.Logger { return zap.NewNop() }
