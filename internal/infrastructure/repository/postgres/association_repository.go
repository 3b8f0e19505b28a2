package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

const pgUniqueViolation = "23505"

type AssociationRepository struct {
	db *sql.DB
}

func NewAssociationRepository(db *sql.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// AttachPrimary enforces one primary tag per document through the
// partial unique index on (document_id) WHERE is_primary. A second
// primary attach surfaces as an invariant violation, not a raw driver
// error.
func (r *AssociationRepository) AttachPrimary(ctx context.Context, documentID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO associations (document_id, tag_id, is_primary)
VALUES ($1,$2,TRUE)
`, documentID, tagID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.WrapError(domain.ErrInvariantViolation, "attach primary tag",
				fmt.Errorf("document %s already has a primary tag", documentID))
		}
		return fmt.Errorf("attach primary tag: %w", err)
	}
	return nil
}

// AttachSecondary is idempotent: re-attaching the same tag is a no-op.
func (r *AssociationRepository) AttachSecondary(ctx context.Context, documentID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO associations (document_id, tag_id, is_primary)
VALUES ($1,$2,FALSE)
ON CONFLICT (document_id, tag_id) DO NOTHING
`, documentID, tagID)
	if err != nil {
		return fmt.Errorf("attach secondary tag: %w", err)
	}
	return nil
}

func (r *AssociationRepository) PrimaryTagIDs(ctx context.Context, documentIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(`
SELECT document_id, tag_id
FROM associations
WHERE is_primary AND document_id IN (%s)
`, placeholders(1, len(documentIDs)))

	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query primary tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID, tagID string
		if err := rows.Scan(&docID, &tagID); err != nil {
			return nil, fmt.Errorf("scan primary tag: %w", err)
		}
		out[docID] = tagID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary tags: %w", err)
	}
	return out, nil
}

func (r *AssociationRepository) DocumentIDsWithPrimaryTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id
FROM associations
WHERE is_primary AND tag_id = $1
`, tagID)
	if err != nil {
		return nil, fmt.Errorf("query documents by primary tag: %w", err)
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

func (r *AssociationRepository) CountDistinctPrimaryTags(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(DISTINCT tag_id) FROM associations WHERE is_primary
`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct primary tags: %w", err)
	}
	return n, nil
}
