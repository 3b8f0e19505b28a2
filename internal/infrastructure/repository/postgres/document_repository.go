package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, owner_id, filename, mime, text_content, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, doc.ID, doc.OwnerID, doc.Filename, doc.Mime, doc.TextContent, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Delete is the compensating action for a failed primary-tag attach;
// associations go with the document via ON DELETE CASCADE.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, filename, mime, text_content, created_at
FROM documents
WHERE owner_id = $1 AND id = $2
`, ownerID, id)

	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.Mime, &doc.TextContent, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("document id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}

// FindByIDs drops ids that are missing or not owned by ownerID; an
// empty result is the caller's concern, not an error here.
func (r *DocumentRepository) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}

	query := fmt.Sprintf(`
SELECT id, owner_id, filename, mime, text_content, created_at
FROM documents
WHERE owner_id = $1 AND id IN (%s)
ORDER BY created_at DESC
`, placeholders(2, len(ids)))

	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	return r.queryDocuments(ctx, "find documents by ids", query, args...)
}

func (r *DocumentRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM documents WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list document ids: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document ids: %w", err)
	}
	return out, nil
}

// Search delegates full-text matching to the store's GIN index. A nil
// ids slice searches all owned documents; a non-nil slice narrows to
// that candidate set.
func (r *DocumentRepository) Search(ctx context.Context, ownerID, query string, ids []string) ([]domain.Document, error) {
	sqlQuery := `
SELECT id, owner_id, filename, mime, text_content, created_at
FROM documents
WHERE owner_id = $1
AND to_tsvector('simple', text_content) @@ plainto_tsquery('simple', $2)
`
	args := []any{ownerID, query}
	if ids != nil {
		sqlQuery += fmt.Sprintf("AND id IN (%s)\n", placeholders(3, len(ids)))
		for _, id := range ids {
			args = append(args, id)
		}
	}
	sqlQuery += "ORDER BY created_at DESC"

	return r.queryDocuments(ctx, "search documents", sqlQuery, args...)
}

func (r *DocumentRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, op, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.Mime, &doc.TextContent, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
