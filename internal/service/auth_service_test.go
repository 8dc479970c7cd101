package service

import (
	"context"
	"errors"
	"testing"

	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository/memory"
)

func newAuthService(store *memory.Store, revoker TokenRevoker, t *testing.T) *AuthService {
	return NewAuthService(store.Users(), store.Tenants(), testTokens(t), revoker, nopLogger())
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	svc := newAuthService(store, nil, t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: testPassword})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
		if resp.User.ID != admin.ID {
			t.Errorf("user id = %s, want %s", resp.User.ID, admin.ID)
		}
		if resp.User.Role != domain.RoleAdmin {
			t.Errorf("role = %q, want admin", resp.User.Role)
		}
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "  Admin@acme.test ", Password: testPassword})
		if err != nil {
			t.Fatalf("Login with mixed-case email: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@acme.test", Password: testPassword})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		member := seedUser(t, store, tenant, "member@acme.test", domain.RoleMember)
		if err := store.Users().SetActive(ctx, member.ID, false); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		_, err := svc.Login(ctx, LoginRequest{Email: member.Email, Password: testPassword})
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("err = %v, want ErrAccountInactive", err)
		}
	})
}

func TestResolve(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	svc := newAuthService(store, nil, t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	principal, err := svc.Resolve(ctx, resp.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if principal.User.ID != admin.ID {
		t.Errorf("user id = %s, want %s", principal.User.ID, admin.ID)
	}
	if principal.Tenant.ID != tenant.ID {
		t.Errorf("tenant id = %s, want %s", principal.Tenant.ID, tenant.ID)
	}

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "not-a-jwt")
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("deactivation cuts off a live token", func(t *testing.T) {
		if err := store.Users().SetActive(ctx, admin.ID, false); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		defer func() {
			if err := store.Users().SetActive(ctx, admin.ID, true); err != nil {
				t.Fatalf("SetActive: %v", err)
			}
		}()

		_, err := svc.Resolve(ctx, resp.Token)
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("err = %v, want ErrAccountInactive", err)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	revoker := newStubRevoker()
	svc := newAuthService(store, revoker, t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: admin.Email, Password: testPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Resolve(ctx, resp.Token); err != nil {
		t.Fatalf("Resolve before logout: %v", err)
	}

	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := svc.Resolve(ctx, resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Resolve after logout: err = %v, want ErrInvalidToken", err)
	}
}
