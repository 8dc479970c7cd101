package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is owned exclusively by its author and tenant. Admins may read every
// note in their tenant; mutation stays author-only regardless of role.
type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Sub       string    `json:"sub" db:"sub"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NoteWithAuthor is a note joined with its author's display info for listings.
type NoteWithAuthor struct {
	Note
	AuthorName  string `json:"author_name" db:"author_name"`
	AuthorEmail string `json:"author_email" db:"author_email"`
}
