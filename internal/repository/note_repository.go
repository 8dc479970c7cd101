package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
)

// NoteFilter narrows and orders a tenant's note listing. AuthorID is set for
// member requests so they only ever see their own notes.
type NoteFilter struct {
	TenantID uuid.UUID
	AuthorID *uuid.UUID
	Search   string
	SortBy   string
	Order    string
}

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	// CreateIfUnderLimit inserts the note only while the tenant holds fewer
	// than limit notes. The count and the insert are a single conditional
	// statement, so two concurrent creates cannot both slip under the cap.
	// ErrLimitReached when the guard fails.
	CreateIfUnderLimit(ctx context.Context, note *domain.Note, limit int) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]*domain.NoteWithAuthor, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}
