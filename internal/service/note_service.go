package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
	"go.uber.org/zap"
)

type NoteService struct {
	noteRepo      repository.NoteRepository
	freeNoteLimit int
	log           *zap.Logger
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Sub     string `json:"sub"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Sub     *string `json:"sub"`
	Content *string `json:"content"`
}

// ListNotesQuery carries the optional search/sort parameters of a listing.
type ListNotesQuery struct {
	Search string `json:"search"`
	SortBy string `json:"sortBy"`
	Order  string `json:"order"`
}

func NewNoteService(noteRepo repository.NoteRepository, freeNoteLimit int, log *zap.Logger) *NoteService {
	return &NoteService{
		noteRepo:      noteRepo,
		freeNoteLimit: freeNoteLimit,
		log:           log,
	}
}

// Create persists a note for the principal. Free-plan tenants go through a
// conditional insert guarded by the tenant's note count; pro tenants insert
// unconditionally.
func (s *NoteService) Create(ctx context.Context, principal *domain.Principal, req CreateNoteRequest) (*domain.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now()
	note := &domain.Note{
		ID:        uuid.New(),
		TenantID:  principal.Tenant.ID,
		AuthorID:  principal.User.ID,
		Title:     title,
		Sub:       strings.TrimSpace(req.Sub),
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if principal.Tenant.IsFree() {
		err := s.noteRepo.CreateIfUnderLimit(ctx, note, s.freeNoteLimit)
		if err != nil {
			if errors.Is(err, repository.ErrLimitReached) {
				return nil, ErrQuotaExceeded
			}
			s.log.Error("note create failed", zap.String("tenant_id", note.TenantID.String()), zap.Error(err))
			return nil, err
		}
		return note, nil
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("note create failed", zap.String("tenant_id", note.TenantID.String()), zap.Error(err))
		return nil, err
	}

	return note, nil
}

// List returns the principal's visible notes: admins see every note in the
// tenant, members only their own.
func (s *NoteService) List(ctx context.Context, principal *domain.Principal, query ListNotesQuery) ([]*domain.NoteWithAuthor, error) {
	filter := repository.NoteFilter{
		TenantID: principal.Tenant.ID,
		Search:   query.Search,
		SortBy:   query.SortBy,
		Order:    query.Order,
	}

	if !principal.User.IsAdmin() {
		authorID := principal.User.ID
		filter.AuthorID = &authorID
	}

	return s.noteRepo.List(ctx, filter)
}

// Get fetches a single note. A note in another tenant is indistinguishable
// from a missing one; members cannot read other authors' notes.
func (s *NoteService) Get(ctx context.Context, principal *domain.Principal, noteID string) (*domain.Note, error) {
	note, err := s.fetchTenantNote(ctx, principal, noteID)
	if err != nil {
		return nil, err
	}

	if !principal.User.IsAdmin() && note.AuthorID != principal.User.ID {
		return nil, ErrForbidden
	}

	return note, nil
}

// Update applies the provided non-empty fields. Mutation is author-only for
// every role: an admin cannot edit another member's note.
func (s *NoteService) Update(ctx context.Context, principal *domain.Principal, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.fetchTenantNote(ctx, principal, noteID)
	if err != nil {
		return nil, err
	}

	if note.AuthorID != principal.User.ID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != "" {
			note.Title = title
		}
	}
	if req.Sub != nil {
		note.Sub = strings.TrimSpace(*req.Sub)
	}
	if req.Content != nil {
		note.Content = strings.TrimSpace(*req.Content)
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	return note, nil
}

// Delete removes a note. Like update, deletion is author-only for every role.
func (s *NoteService) Delete(ctx context.Context, principal *domain.Principal, noteID string) error {
	note, err := s.fetchTenantNote(ctx, principal, noteID)
	if err != nil {
		return err
	}

	if note.AuthorID != principal.User.ID {
		return ErrForbidden
	}

	if err := s.noteRepo.Delete(ctx, note.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	return nil
}

// fetchTenantNote parses the id and loads the note, folding a cross-tenant
// hit into not-found so existence never leaks across tenants.
func (s *NoteService) fetchTenantNote(ctx context.Context, principal *domain.Principal, noteID string) (*domain.Note, error) {
	id, err := uuid.Parse(noteID)
	if err != nil {
		return nil, ErrInvalidID
	}

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	if note.TenantID != principal.Tenant.ID {
		return nil, ErrNoteNotFound
	}

	return note, nil
}
