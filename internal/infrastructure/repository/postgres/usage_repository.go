package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Record(ctx context.Context, userID, action string, credits int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO usage_records (id, user_id, action, credits, created_at)
VALUES ($1,$2,$3,$4,$5)
`, uuid.NewString(), userID, action, credits, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

func (r *UsageRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM usage_records WHERE created_at >= $1
`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count usage records: %w", err)
	}
	return n, nil
}
