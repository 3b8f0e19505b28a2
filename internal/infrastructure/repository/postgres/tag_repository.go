package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate inserts the tag if absent and otherwise re-reads the
// existing row. The ON CONFLICT clause rides the (owner_id, name)
// unique index, so two concurrent first-uses converge on one row.
func (r *TagRepository) FindOrCreate(ctx context.Context, ownerID, name string) (*domain.Tag, bool, error) {
	tag := domain.Tag{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO tags (id, owner_id, name, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (owner_id, name) DO NOTHING
RETURNING id, created_at
`, tag.ID, ownerID, name, tag.CreatedAt)

	err := row.Scan(&tag.ID, &tag.CreatedAt)
	if err == nil {
		return &tag, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert tag: %w", err)
	}

	// Lost the race (or the tag predates us): read the winner.
	existing, err := r.GetByName(ctx, ownerID, name)
	if err != nil {
		return nil, false, fmt.Errorf("re-read tag after conflict: %w", err)
	}
	return existing, false, nil
}

func (r *TagRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Tag, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, created_at
FROM tags
WHERE owner_id = $1 AND id = $2
`, ownerID, id)
	return scanTag(row, fmt.Sprintf("id=%s", id))
}

func (r *TagRepository) GetByName(ctx context.Context, ownerID, name string) (*domain.Tag, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, created_at
FROM tags
WHERE owner_id = $1 AND name = $2
`, ownerID, name)
	return scanTag(row, fmt.Sprintf("name=%s", name))
}

func (r *TagRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	query := fmt.Sprintf(`
SELECT id, owner_id, name, created_at
FROM tags
WHERE id IN (%s)
`, placeholders(1, len(ids)))

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find tags by ids: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Tag, 0, len(ids))
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return out, nil
}

func scanTag(row *sql.Row, ref string) (*domain.Tag, error) {
	var tag domain.Tag
	err := row.Scan(&tag.ID, &tag.OwnerID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get tag", fmt.Errorf("tag %s", ref))
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}
	return &tag, nil
}
