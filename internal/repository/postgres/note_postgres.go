package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/repository"
)

// noteSortColumns whitelists the sortable columns, accepting both snake_case
// and camelCase spellings; anything else falls back to updated_at.
var noteSortColumns = map[string]string{
	"updated_at": "n.updated_at",
	"updatedAt":  "n.updated_at",
	"created_at": "n.created_at",
	"createdAt":  "n.created_at",
	"title":      "n.title",
}

type noteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new PostgreSQL note repository
func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts a note without a quota guard (pro-plan path)
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	query := `
		INSERT INTO notes (id, tenant_id, author_id, title, sub, content, created_at, updated_at)
		VALUES (:id, :tenant_id, :author_id, :title, :sub, :content, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// CreateIfUnderLimit inserts the note only while the tenant's note count is
// below limit. The tenant row is locked first: under READ COMMITTED a bare
// counted insert reads its own snapshot and two concurrent creates at
// count = limit-1 would both pass the guard, so concurrent creates for one
// tenant must serialize on the row lock before counting.
func (r *noteRepository) CreateIfUnderLimit(ctx context.Context, note *domain.Note, limit int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var tenantID uuid.UUID
	lockQuery := `SELECT id FROM tenants WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &tenantID, lockQuery, note.TenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to lock tenant: %w", err)
	}

	query := `
		INSERT INTO notes (id, tenant_id, author_id, title, sub, content, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE (SELECT COUNT(*) FROM notes WHERE tenant_id = $2) < $9`

	result, err := tx.ExecContext(ctx, query,
		note.ID, note.TenantID, note.AuthorID, note.Title, note.Sub, note.Content,
		note.CreatedAt, note.UpdatedAt, limit,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrLimitReached
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit note creation: %w", err)
	}

	return nil
}

// GetByID retrieves a note by its ID
func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := `
		SELECT id, tenant_id, author_id, title, sub, content, created_at, updated_at
		FROM notes
		WHERE id = $1`

	var note domain.Note
	err := r.db.GetContext(ctx, &note, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note by id: %w", err)
	}

	return &note, nil
}

// List retrieves notes matching the filter, joined with author display info.
// The id tie-break keeps equal sort values in a deterministic order.
func (r *noteRepository) List(ctx context.Context, filter repository.NoteFilter) ([]*domain.NoteWithAuthor, error) {
	query := `
		SELECT n.id, n.tenant_id, n.author_id, n.title, n.sub, n.content,
			   n.created_at, n.updated_at,
			   u.name AS author_name, u.email AS author_email
		FROM notes n
		JOIN users u ON u.id = n.author_id
		WHERE n.tenant_id = $1`

	args := []interface{}{filter.TenantID}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		query += fmt.Sprintf(" AND n.author_id = $%d", len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		query += fmt.Sprintf(" AND n.title ILIKE $%d ESCAPE '\\'", len(args))
	}

	column, ok := noteSortColumns[filter.SortBy]
	if !ok {
		column = noteSortColumns["updated_at"]
	}

	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s, n.id ASC", column, direction)

	var notes []*domain.NoteWithAuthor
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// Update rewrites the content fields of a note
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	query := `
		UPDATE notes
		SET title = :title,
			sub = :sub,
			content = :content,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete hard-deletes a note
func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// escapeLike escapes LIKE/ILIKE metacharacters so a search term matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
