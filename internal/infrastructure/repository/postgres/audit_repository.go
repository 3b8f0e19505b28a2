package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record assigns the row id and timestamp itself; callers only describe
// the event.
func (r *AuditRepository) Record(ctx context.Context, entry domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	var metadata any
	if entry.Metadata != nil {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
		metadata = encoded
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_log (id, at, user_id, action, entity_type, entity_id, metadata)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, entry.ID, entry.At, entry.UserID, entry.Action, string(entry.EntityType), entry.EntityID, metadata)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
