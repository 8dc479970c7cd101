// Package memory provides in-memory repository implementations with the same
// semantics as the PostgreSQL ones, including the conditional writes. They
// back the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
)

// Store is a shared in-memory database; the per-entity repositories all point
// at the same store so joins work.
type Store struct {
	mu          sync.Mutex
	tenants     map[uuid.UUID]*domain.Tenant
	users       map[uuid.UUID]*domain.User
	invitations map[uuid.UUID]*domain.Invitation
	notes       map[uuid.UUID]*domain.Note
}

func NewStore() *Store {
	return &Store{
		tenants:     make(map[uuid.UUID]*domain.Tenant),
		users:       make(map[uuid.UUID]*domain.User),
		invitations: make(map[uuid.UUID]*domain.Invitation),
		notes:       make(map[uuid.UUID]*domain.Note),
	}
}

func (s *Store) Tenants() repository.TenantRepository         { return &tenantRepo{s} }
func (s *Store) Users() repository.UserRepository             { return &userRepo{s} }
func (s *Store) Invitations() repository.InvitationRepository { return &invitationRepo{s} }
func (s *Store) Notes() repository.NoteRepository             { return &noteRepo{s} }

func (s *Store) slugTaken(slug string) bool {
	for _, t := range s.tenants {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) emailTaken(tenantID uuid.UUID, email string) bool {
	for _, u := range s.users {
		if u.TenantID == tenantID && u.Email == email {
			return true
		}
	}
	return false
}

// tenant repository

type tenantRepo struct {
	store *Store
}

func (r *tenantRepo) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.slugTaken(tenant.Slug) {
		return repository.ErrDuplicate
	}
	if r.store.emailTaken(tenant.ID, admin.Email) {
		return repository.ErrDuplicate
	}

	t := *tenant
	u := *admin
	r.store.tenants[t.ID] = &t
	r.store.users[u.ID] = &u
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenant, ok := r.store.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := *tenant
	return &t, nil
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, tenant := range r.store.tenants {
		if tenant.Slug == slug {
			t := *tenant
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *tenantRepo) UpdatePlan(ctx context.Context, id uuid.UUID, plan domain.SubscriptionPlan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenant, ok := r.store.tenants[id]
	if !ok {
		return repository.ErrNotFound
	}
	tenant.Plan = plan
	tenant.UpdatedAt = time.Now()
	return nil
}

func (r *tenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenants := make([]*domain.Tenant, 0, len(r.store.tenants))
	for _, tenant := range r.store.tenants {
		t := *tenant
		tenants = append(tenants, &t)
	}
	sort.Slice(tenants, func(i, j int) bool {
		return tenants[i].CreatedAt.After(tenants[j].CreatedAt)
	})
	return tenants, nil
}

// user repository

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.emailTaken(user.TenantID, user.Email) {
		return repository.ErrDuplicate
	}
	u := *user
	r.store.users[u.ID] = &u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var oldest *domain.User
	for _, user := range r.store.users {
		if user.Email != email {
			continue
		}
		if oldest == nil || user.CreatedAt.Before(oldest.CreatedAt) {
			oldest = user
		}
	}
	if oldest == nil {
		return nil, repository.ErrNotFound
	}
	u := *oldest
	return &u, nil
}

func (r *userRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var users []*domain.User
	for _, user := range r.store.users {
		if user.TenantID == tenantID {
			u := *user
			users = append(users, &u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *userRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	return nil
}

// invitation repository

type invitationRepo struct {
	store *Store
}

func (r *invitationRepo) Create(ctx context.Context, invitation *domain.Invitation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.invitations {
		if existing.ReferralCode == invitation.ReferralCode {
			return repository.ErrDuplicate
		}
	}
	inv := *invitation
	r.store.invitations[inv.ID] = &inv
	return nil
}

func (r *invitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	invitation, ok := r.store.invitations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	inv := *invitation
	return &inv, nil
}

func (r *invitationRepo) GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, invitation := range r.store.invitations {
		if invitation.ReferralCode == code && invitation.Email == email && !invitation.IsUsed {
			inv := *invitation
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *invitationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.InvitationWithInviter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var rows []*domain.InvitationWithInviter
	for _, invitation := range r.store.invitations {
		if invitation.TenantID != tenantID {
			continue
		}
		row := &domain.InvitationWithInviter{Invitation: *invitation}
		if inviter, ok := r.store.users[invitation.InviterID]; ok {
			row.InviterName = inviter.Name
			row.InviterEmail = inviter.Email
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (r *invitationRepo) ExtendExpiry(ctx context.Context, id, tenantID uuid.UUID, expiresAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	invitation, ok := r.store.invitations[id]
	if !ok || invitation.TenantID != tenantID || invitation.IsUsed {
		return repository.ErrNotFound
	}
	invitation.ExpiresAt = expiresAt
	invitation.UpdatedAt = time.Now()
	return nil
}

func (r *invitationRepo) DeleteUnused(ctx context.Context, id, tenantID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	invitation, ok := r.store.invitations[id]
	if !ok || invitation.TenantID != tenantID || invitation.IsUsed {
		return repository.ErrNotFound
	}
	delete(r.store.invitations, id)
	return nil
}

func (r *invitationRepo) Redeem(ctx context.Context, invitationID uuid.UUID, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	invitation, ok := r.store.invitations[invitationID]
	if !ok || invitation.IsUsed || time.Now().After(invitation.ExpiresAt) {
		return repository.ErrNotFound
	}
	if r.store.emailTaken(user.TenantID, user.Email) {
		return repository.ErrDuplicate
	}

	invitation.IsUsed = true
	invitation.UpdatedAt = time.Now()
	u := *user
	r.store.users[u.ID] = &u
	return nil
}

// note repository

type noteRepo struct {
	store *Store
}

func (r *noteRepo) Create(ctx context.Context, note *domain.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := *note
	r.store.notes[n.ID] = &n
	return nil
}

func (r *noteRepo) CreateIfUnderLimit(ctx context.Context, note *domain.Note, limit int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, existing := range r.store.notes {
		if existing.TenantID == note.TenantID {
			count++
		}
	}
	if count >= limit {
		return repository.ErrLimitReached
	}

	n := *note
	r.store.notes[n.ID] = &n
	return nil
}

func (r *noteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	note, ok := r.store.notes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	n := *note
	return &n, nil
}

func (r *noteRepo) List(ctx context.Context, filter repository.NoteFilter) ([]*domain.NoteWithAuthor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var rows []*domain.NoteWithAuthor
	for _, note := range r.store.notes {
		if note.TenantID != filter.TenantID {
			continue
		}
		if filter.AuthorID != nil && note.AuthorID != *filter.AuthorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(note.Title), search) {
			continue
		}
		row := &domain.NoteWithAuthor{Note: *note}
		if author, ok := r.store.users[note.AuthorID]; ok {
			row.AuthorName = author.Name
			row.AuthorEmail = author.Email
		}
		rows = append(rows, row)
	}

	asc := strings.EqualFold(filter.Order, "asc")
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less, equal bool
		switch filter.SortBy {
		case "created_at", "createdAt":
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		case "title":
			less, equal = a.Title < b.Title, a.Title == b.Title
		default:
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		}
		if equal {
			return a.ID.String() < b.ID.String()
		}
		if asc {
			return less
		}
		return !less
	})

	return rows, nil
}

func (r *noteRepo) Update(ctx context.Context, note *domain.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.notes[note.ID]; !ok {
		return repository.ErrNotFound
	}
	n := *note
	r.store.notes[n.ID] = &n
	return nil
}

func (r *noteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.notes, id)
	return nil
}
