package domain

import "time"

type EntityType string

const (
	EntityDocument EntityType = "document"
	EntityTag      EntityType = "tag"
	EntityAction   EntityType = "action"
	EntityWebhook  EntityType = "webhook"
	EntityTask     EntityType = "task"
)

type AuditEntry struct {
	ID         string         `json:"id"`
	At         time.Time      `json:"at"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
