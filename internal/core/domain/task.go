package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is an unsubscribe job created by webhook processing. It is born
// pending; only the task worker moves it to completed or failed.
type Task struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Status    TaskStatus     `json:"status"`
	Channel   string         `json:"channel"`
	Target    string         `json:"target"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
