package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateIfUnderLimit counts and inserts inside one transaction guarded
// by an advisory lock on the (user, channel) pair, so concurrent
// webhooks for the same sender cannot both observe a count under the
// limit. Returns false without error when the limit is already reached.
func (r *TaskRepository) CreateIfUnderLimit(ctx context.Context, task *domain.Task, windowStart, windowEnd time.Time, limit int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin task tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := task.UserID + "/" + task.Channel
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return false, fmt.Errorf("acquire task lock: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM tasks
WHERE user_id = $1 AND channel = $2 AND created_at >= $3 AND created_at < $4
`, task.UserID, task.Channel, windowStart, windowEnd).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count tasks in window: %w", err)
	}
	if count >= limit {
		return false, nil
	}

	metadata, err := json.Marshal(task.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode task metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO tasks (id, user_id, status, channel, target, metadata, error_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, task.ID, task.UserID, string(task.Status), task.Channel, task.Target, metadata, task.Error, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit task tx: %w", err)
	}
	return true, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, status, channel, target, metadata, error_message, created_at, updated_at
FROM tasks
WHERE id = $1
`, id)

	var (
		task     domain.Task
		status   string
		metadata []byte
	)
	err := row.Scan(&task.ID, &task.UserID, &status, &task.Channel, &task.Target, &metadata, &task.Error, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get task", fmt.Errorf("task id=%s", id))
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = domain.TaskStatus(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &task.Metadata); err != nil {
			return nil, fmt.Errorf("decode task metadata: %w", err)
		}
	}
	return &task, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks SET status = $2, error_message = $3, updated_at = NOW()
WHERE id = $1
`, id, string(status), errMessage)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update task status", fmt.Errorf("task id=%s", id))
	}
	return nil
}

func (r *TaskRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM tasks WHERE created_at >= $1 AND created_at < $2
`, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks between: %w", err)
	}
	return n, nil
}
