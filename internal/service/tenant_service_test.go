package service

import (
	"context"
	"errors"
	"testing"

	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository/memory"
)

func TestRegister(t *testing.T) {
	store := memory.NewStore()
	svc := NewTenantService(store.Tenants(), testTokens(t), nopLogger())
	ctx := context.Background()

	req := RegisterRequest{
		TenantName: "Acme Corp",
		TenantSlug: "Acme ",
		Name:       "Ada",
		Email:      "Ada@Acme.test",
		Password:   testPassword,
	}

	resp, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token for the new admin")
	}
	if resp.User.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", resp.User.Role)
	}
	if resp.User.Email != "ada@acme.test" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}

	tenant, err := store.Tenants().GetBySlug(ctx, "acme")
	if err != nil {
		t.Fatalf("slug was not normalized: %v", err)
	}
	if tenant.Plan != domain.PlanFree {
		t.Errorf("plan = %q, want free", tenant.Plan)
	}

	t.Run("duplicate slug", func(t *testing.T) {
		dup := req
		dup.Email = "other@acme.test"
		if _, err := svc.Register(ctx, dup); !errors.Is(err, ErrSlugTaken) {
			t.Errorf("err = %v, want ErrSlugTaken", err)
		}
	})
}

func TestUpgrade(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	svc := NewTenantService(store.Tenants(), testTokens(t), nopLogger())
	ctx := context.Background()

	upgraded, err := svc.Upgrade(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if upgraded.Plan != domain.PlanPro {
		t.Errorf("plan = %q, want pro", upgraded.Plan)
	}

	stored, err := store.Tenants().GetByID(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Plan != domain.PlanPro {
		t.Errorf("stored plan = %q, want pro", stored.Plan)
	}

	t.Run("idempotent", func(t *testing.T) {
		again, err := svc.Upgrade(ctx, tenant.ID)
		if err != nil {
			t.Fatalf("second Upgrade: %v", err)
		}
		if again.Plan != domain.PlanPro {
			t.Errorf("plan = %q, want pro", again.Plan)
		}
	})

	t.Run("unknown tenant", func(t *testing.T) {
		other := seedTenant(t, store, "other", domain.PlanFree)
		missing := other.ID
		missing[0] ^= 0xff
		if _, err := svc.Upgrade(ctx, missing); !errors.Is(err, ErrTenantNotFound) {
			t.Errorf("err = %v, want ErrTenantNotFound", err)
		}
	})
}
