package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository/memory"
)

const freeLimit = 3

func newNoteService(store *memory.Store) *NoteService {
	return NewNoteService(store.Notes(), freeLimit, nopLogger())
}

func strp(s string) *string { return &s }

func TestCreateNote(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	svc := newNoteService(store)
	ctx := context.Background()

	note, err := svc.Create(ctx, principalFor(admin, tenant), CreateNoteRequest{
		Title:   "  Meeting notes  ",
		Sub:     "standup",
		Content: "discussed roadmap",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.Title != "Meeting notes" {
		t.Errorf("title = %q, want trimmed", note.Title)
	}
	if note.TenantID != tenant.ID || note.AuthorID != admin.ID {
		t.Error("note not stamped with the principal's tenant and author")
	}

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, principalFor(admin, tenant), CreateNoteRequest{Title: "   "})
		if !errors.Is(err, ErrTitleRequired) {
			t.Errorf("err = %v, want ErrTitleRequired", err)
		}
	})
}

func TestFreePlanQuota(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	member := seedUser(t, store, tenant, "member@acme.test", domain.RoleMember)
	svc := newNoteService(store)
	ctx := context.Background()

	// The limit is per tenant, not per user.
	authors := []*domain.User{admin, member, admin}
	for i, author := range authors {
		_, err := svc.Create(ctx, principalFor(author, tenant), CreateNoteRequest{Title: "note"})
		if err != nil {
			t.Fatalf("note %d: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, principalFor(member, tenant), CreateNoteRequest{Title: "one too many"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("fourth note: err = %v, want ErrQuotaExceeded", err)
	}

	t.Run("upgrade lifts the limit", func(t *testing.T) {
		if err := store.Tenants().UpdatePlan(ctx, tenant.ID, domain.PlanPro); err != nil {
			t.Fatalf("UpdatePlan: %v", err)
		}
		pro, err := store.Tenants().GetByID(ctx, tenant.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if _, err := svc.Create(ctx, principalFor(member, pro), CreateNoteRequest{Title: "fourth"}); err != nil {
			t.Fatalf("note after upgrade: %v", err)
		}
	})

	t.Run("other tenants are unaffected", func(t *testing.T) {
		other := seedTenant(t, store, "globex", domain.PlanFree)
		otherAdmin := adminOf(t, store, other)
		if _, err := svc.Create(ctx, principalFor(otherAdmin, other), CreateNoteRequest{Title: "first"}); err != nil {
			t.Fatalf("Create in fresh tenant: %v", err)
		}
	})
}

// Concurrent creates racing toward the cap must admit exactly limit notes; the
// repository serializes the count-and-insert, so no interleaving can overshoot.
func TestFreePlanQuotaConcurrentCreates(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanFree)
	admin := adminOf(t, store, tenant)
	svc := newNoteService(store)
	ctx := context.Background()

	const attempts = 10
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, principalFor(admin, tenant), CreateNoteRequest{Title: "racer"})
		}(i)
	}
	wg.Wait()

	created := 0
	for i, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrQuotaExceeded):
		default:
			t.Fatalf("create %d: unexpected error %v", i, err)
		}
	}
	if created != freeLimit {
		t.Fatalf("created = %d, want exactly %d", created, freeLimit)
	}

	notes, err := svc.List(ctx, principalFor(admin, tenant), ListNotesQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != freeLimit {
		t.Fatalf("len(notes) = %d, want %d", len(notes), freeLimit)
	}
}

func TestListNotesVisibility(t *testing.T) {
	store := memory.NewStore()
	acme := seedTenant(t, store, "acme", domain.PlanPro)
	acmeAdmin := adminOf(t, store, acme)
	acmeMember := seedUser(t, store, acme, "member@acme.test", domain.RoleMember)
	globex := seedTenant(t, store, "globex", domain.PlanPro)
	globexAdmin := adminOf(t, store, globex)
	svc := newNoteService(store)
	ctx := context.Background()

	mustCreate := func(author *domain.User, tenant *domain.Tenant, title string) *domain.Note {
		t.Helper()
		note, err := svc.Create(ctx, principalFor(author, tenant), CreateNoteRequest{Title: title})
		if err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
		return note
	}

	mustCreate(acmeAdmin, acme, "admin note")
	memberNote := mustCreate(acmeMember, acme, "member note")
	mustCreate(globexAdmin, globex, "globex note")

	t.Run("admin sees the whole tenant and nothing else", func(t *testing.T) {
		notes, err := svc.List(ctx, principalFor(acmeAdmin, acme), ListNotesQuery{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(notes) != 2 {
			t.Fatalf("len(notes) = %d, want 2", len(notes))
		}
		for _, note := range notes {
			if note.TenantID != acme.ID {
				t.Errorf("note %q leaked from tenant %s", note.Title, note.TenantID)
			}
		}
	})

	t.Run("member sees only their own notes", func(t *testing.T) {
		notes, err := svc.List(ctx, principalFor(acmeMember, acme), ListNotesQuery{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(notes) != 1 || notes[0].ID != memberNote.ID {
			t.Fatalf("member sees %d notes, want exactly their own", len(notes))
		}
		if notes[0].AuthorEmail != acmeMember.Email {
			t.Errorf("author email = %q, want %q", notes[0].AuthorEmail, acmeMember.Email)
		}
	})

	t.Run("search filters by title", func(t *testing.T) {
		notes, err := svc.List(ctx, principalFor(acmeAdmin, acme), ListNotesQuery{Search: "ADMIN"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(notes) != 1 || notes[0].Title != "admin note" {
			t.Fatalf("search returned %d notes", len(notes))
		}
	})

	t.Run("title sort ascending", func(t *testing.T) {
		notes, err := svc.List(ctx, principalFor(acmeAdmin, acme), ListNotesQuery{SortBy: "title", Order: "asc"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(notes) != 2 || notes[0].Title != "admin note" || notes[1].Title != "member note" {
			t.Fatal("notes not sorted by title ascending")
		}
	})

	t.Run("camelCase sort key", func(t *testing.T) {
		// Touch the older note so created and updated orders diverge: a
		// createdAt sort keeps "admin note" first, the updated_at fallback
		// would not.
		adminNote, err := svc.List(ctx, principalFor(acmeAdmin, acme), ListNotesQuery{Search: "admin"})
		if err != nil || len(adminNote) != 1 {
			t.Fatalf("lookup admin note: %v (%d rows)", err, len(adminNote))
		}
		if _, err := svc.Update(ctx, principalFor(acmeAdmin, acme), adminNote[0].ID.String(), UpdateNoteRequest{
			Sub: strp("touched"),
		}); err != nil {
			t.Fatalf("Update: %v", err)
		}

		notes, err := svc.List(ctx, principalFor(acmeAdmin, acme), ListNotesQuery{SortBy: "createdAt", Order: "asc"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(notes) != 2 || notes[0].Title != "admin note" {
			t.Fatal("createdAt sort key not honored")
		}
	})
}

func TestGetNote(t *testing.T) {
	store := memory.NewStore()
	acme := seedTenant(t, store, "acme", domain.PlanPro)
	acmeAdmin := adminOf(t, store, acme)
	acmeMember := seedUser(t, store, acme, "member@acme.test", domain.RoleMember)
	globex := seedTenant(t, store, "globex", domain.PlanPro)
	globexAdmin := adminOf(t, store, globex)
	svc := newNoteService(store)
	ctx := context.Background()

	note, err := svc.Create(ctx, principalFor(acmeAdmin, acme), CreateNoteRequest{Title: "secret"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, principalFor(acmeAdmin, acme), note.ID.String()); err != nil {
		t.Fatalf("author Get: %v", err)
	}

	t.Run("cross tenant reads as not found", func(t *testing.T) {
		_, err := svc.Get(ctx, principalFor(globexAdmin, globex), note.ID.String())
		if !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("err = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("member cannot read another author's note", func(t *testing.T) {
		_, err := svc.Get(ctx, principalFor(acmeMember, acme), note.ID.String())
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(ctx, principalFor(acmeAdmin, acme), "not-a-uuid")
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("err = %v, want ErrInvalidID", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Get(ctx, principalFor(acmeAdmin, acme), uuid.NewString())
		if !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("err = %v, want ErrNoteNotFound", err)
		}
	})
}

func TestUpdateNote(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanPro)
	admin := adminOf(t, store, tenant)
	member := seedUser(t, store, tenant, "member@acme.test", domain.RoleMember)
	svc := newNoteService(store)
	ctx := context.Background()

	note, err := svc.Create(ctx, principalFor(member, tenant), CreateNoteRequest{
		Title:   "draft",
		Sub:     "sub",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, principalFor(member, tenant), note.ID.String(), UpdateNoteRequest{
		Title:   strp("final"),
		Content: strp(""),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "final" {
		t.Errorf("title = %q, want %q", updated.Title, "final")
	}
	if updated.Sub != "sub" {
		t.Errorf("sub = %q, omitted fields must be untouched", updated.Sub)
	}
	if updated.Content != "" {
		t.Errorf("content = %q, want cleared", updated.Content)
	}

	t.Run("blank title keeps the old one", func(t *testing.T) {
		kept, err := svc.Update(ctx, principalFor(member, tenant), note.ID.String(), UpdateNoteRequest{
			Title: strp("   "),
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if kept.Title != "final" {
			t.Errorf("title = %q, want %q", kept.Title, "final")
		}
	})

	t.Run("admins cannot edit another author's note", func(t *testing.T) {
		_, err := svc.Update(ctx, principalFor(admin, tenant), note.ID.String(), UpdateNoteRequest{
			Title: strp("hijacked"),
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestDeleteNote(t *testing.T) {
	store := memory.NewStore()
	tenant := seedTenant(t, store, "acme", domain.PlanPro)
	admin := adminOf(t, store, tenant)
	member := seedUser(t, store, tenant, "member@acme.test", domain.RoleMember)
	svc := newNoteService(store)
	ctx := context.Background()

	note, err := svc.Create(ctx, principalFor(member, tenant), CreateNoteRequest{Title: "mine"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("admins cannot delete another author's note", func(t *testing.T) {
		err := svc.Delete(ctx, principalFor(admin, tenant), note.ID.String())
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	if err := svc.Delete(ctx, principalFor(member, tenant), note.ID.String()); err != nil {
		t.Fatalf("author Delete: %v", err)
	}
	if err := svc.Delete(ctx, principalFor(member, tenant), note.ID.String()); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("second delete: err = %v, want ErrNoteNotFound", err)
	}
}
