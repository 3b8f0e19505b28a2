package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// DailyTaskLimit caps unsubscribe tasks per (user, sender, day).
const DailyTaskLimit = 3

const rateLimitReason = "Rate limit exceeded: maximum 3 tasks per sender per day"

// webhookTextPreview is how much of the original text a created task
// keeps in its metadata.
const webhookTextPreview = 200

type ProcessOCRWebhookUseCase struct {
	tasks ports.TaskRepository
	queue ports.MessageQueue
	audit ports.AuditLogger
	clock ports.Clock
}

func NewProcessOCRWebhookUseCase(
	tasks ports.TaskRepository,
	queue ports.MessageQueue,
	audit ports.AuditLogger,
	clock ports.Clock,
) *ProcessOCRWebhookUseCase {
	return &ProcessOCRWebhookUseCase{tasks: tasks, queue: queue, audit: audit, clock: clock}
}

// ProcessOCR classifies the text, extracts an unsubscribe target for
// ads, and creates a pending task under the per-sender daily cap. Non-ad
// text, a missing target and a hit cap are reported as outcomes, never
// as errors.
func (uc *ProcessOCRWebhookUseCase) ProcessOCR(
	ctx context.Context,
	userID string,
	event domain.OCREvent,
) (*domain.WebhookResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	classification := ClassifyContent(event.Text)

	uc.auditLog(ctx, domain.AuditEntry{
		UserID:     userID,
		Action:     "webhook_received",
		EntityType: domain.EntityWebhook,
		EntityID:   event.ImageID,
		Metadata: map[string]any{
			"source":         event.Source,
			"classification": string(classification),
			"text_length":    len(event.Text),
		},
	})

	result := &domain.WebhookResult{
		ImageID:        event.ImageID,
		Classification: classification,
	}
	if classification != domain.ClassAd {
		return result, nil
	}

	target, ok := ExtractUnsubscribeTarget(event.Text)
	if !ok {
		return result, nil
	}

	now := uc.clock.Now()
	dayStart := startOfDay(now)
	task := &domain.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.TaskStatusPending,
		Channel:   event.Source,
		Target:    target,
		Metadata:  taskMetadata(event),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := uc.tasks.CreateIfUnderLimit(ctx, task, dayStart, dayStart.AddDate(0, 0, 1), DailyTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("create rate-limited task: %w", err)
	}
	if !created {
		result.Reason = rateLimitReason
		return result, nil
	}

	result.Processed = true
	result.TaskID = task.ID

	uc.auditLog(ctx, domain.AuditEntry{
		UserID:     userID,
		Action:     "task_created",
		EntityType: domain.EntityTask,
		EntityID:   task.ID,
		Metadata: map[string]any{
			"channel": event.Source,
			"target":  target,
		},
	})

	// The task row exists either way; a failed publish only delays the
	// worker until redelivery or manual replay.
	if uc.queue != nil {
		if err := uc.queue.PublishTaskCreated(ctx, task.ID); err != nil {
			slog.Warn("task created but publish failed", "task_id", task.ID, "error", err)
		}
	}

	return result, nil
}

// taskMetadata merges the event identity and a text preview with the
// caller-supplied metadata; caller keys win on collision.
func taskMetadata(event domain.OCREvent) map[string]any {
	meta := map[string]any{
		"image_id": event.ImageID,
		"text":     truncateRunes(event.Text, webhookTextPreview),
	}
	for k, v := range event.Meta {
		meta[k] = v
	}
	return meta
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// startOfDay uses the serving process's local day boundary.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (uc *ProcessOCRWebhookUseCase) auditLog(ctx context.Context, entry domain.AuditEntry) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "error", err)
	}
}
