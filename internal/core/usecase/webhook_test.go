package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func newWebhookUC(tasks *fakeTaskRepo, queue *fakeQueue, audit *fakeAuditLogger, now time.Time) *ProcessOCRWebhookUseCase {
	return NewProcessOCRWebhookUseCase(tasks, queue, audit, fakeClock{now: now})
}

func adEvent() domain.OCREvent {
	return domain.OCREvent{
		Source:  "email-gateway",
		ImageID: "img-1",
		Text:    "Mega sale! Unsubscribe: stop@shop.example",
	}
}

func TestProcessOCRCreatesTaskForAdWithTarget(t *testing.T) {
	tasks := newFakeTaskRepo()
	queue := &fakeQueue{}
	audit := &fakeAuditLogger{}
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	uc := newWebhookUC(tasks, queue, audit, now)

	result, err := uc.ProcessOCR(context.Background(), "u-1", adEvent())
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}
	if result.Classification != domain.ClassAd {
		t.Fatalf("expected ad classification, got %q", result.Classification)
	}
	if !result.Processed || result.TaskID == "" {
		t.Fatalf("expected processed result with task id, got %+v", result)
	}

	task := tasks.tasks[result.TaskID]
	if task == nil {
		t.Fatalf("task %s not stored", result.TaskID)
	}
	if task.Target != "stop@shop.example" {
		t.Fatalf("unexpected target %q", task.Target)
	}
	if task.Channel != "email-gateway" {
		t.Fatalf("unexpected channel %q", task.Channel)
	}
	if task.Status != domain.TaskStatusPending {
		t.Fatalf("expected pending task, got %q", task.Status)
	}

	wantStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !tasks.lastWindow[0].Equal(wantStart) {
		t.Fatalf("expected window start %v, got %v", wantStart, tasks.lastWindow[0])
	}
	if !tasks.lastWindow[1].Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("expected one-day window, got end %v", tasks.lastWindow[1])
	}
	if tasks.lastLimit != DailyTaskLimit {
		t.Fatalf("expected limit %d, got %d", DailyTaskLimit, tasks.lastLimit)
	}

	if len(queue.published) != 1 || queue.published[0] != result.TaskID {
		t.Fatalf("expected task id published, got %v", queue.published)
	}
}

func TestProcessOCRReportsRateLimitReason(t *testing.T) {
	tasks := newFakeTaskRepo()
	tasks.windowCount = DailyTaskLimit
	audit := &fakeAuditLogger{}
	uc := newWebhookUC(tasks, &fakeQueue{}, audit, time.Now())

	result, err := uc.ProcessOCR(context.Background(), "u-1", adEvent())
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}
	if result.Processed {
		t.Fatalf("expected unprocessed result at limit")
	}
	if result.Reason != "Rate limit exceeded: maximum 3 tasks per sender per day" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
	if result.TaskID != "" {
		t.Fatalf("no task must be created at limit, got %q", result.TaskID)
	}
}

func TestProcessOCRSkipsNonAdText(t *testing.T) {
	tasks := newFakeTaskRepo()
	uc := newWebhookUC(tasks, &fakeQueue{}, &fakeAuditLogger{}, time.Now())

	result, err := uc.ProcessOCR(context.Background(), "u-1", domain.OCREvent{
		Source:  "email-gateway",
		ImageID: "img-2",
		Text:    "Invoice #9 attached, payment due Friday",
	})
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}
	if result.Classification != domain.ClassOfficial {
		t.Fatalf("expected official classification, got %q", result.Classification)
	}
	if result.Processed {
		t.Fatalf("official text must not be processed")
	}
	if len(tasks.tasks) != 0 {
		t.Fatalf("no task must be created for official text")
	}
}

func TestProcessOCRSkipsAdWithoutTarget(t *testing.T) {
	tasks := newFakeTaskRepo()
	uc := newWebhookUC(tasks, &fakeQueue{}, &fakeAuditLogger{}, time.Now())

	result, err := uc.ProcessOCR(context.Background(), "u-1", domain.OCREvent{
		Source:  "email-gateway",
		ImageID: "img-3",
		Text:    "Flash sale, 70% off, act now",
	})
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}
	if result.Classification != domain.ClassAd {
		t.Fatalf("expected ad classification, got %q", result.Classification)
	}
	if result.Processed || result.Reason != "" {
		t.Fatalf("ad without target must yield a bare unprocessed result, got %+v", result)
	}
}

func TestProcessOCRTaskMetadataMergesAndTruncates(t *testing.T) {
	tasks := newFakeTaskRepo()
	uc := newWebhookUC(tasks, &fakeQueue{}, &fakeAuditLogger{}, time.Now())

	longText := "unsubscribe: x@y.example " + strings.Repeat("deal ", 100)
	result, err := uc.ProcessOCR(context.Background(), "u-1", domain.OCREvent{
		Source:  "email-gateway",
		ImageID: "img-4",
		Text:    longText,
		Meta: map[string]any{
			"image_id": "caller-wins",
			"batch":    "b-7",
		},
	})
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}

	meta := tasks.tasks[result.TaskID].Metadata
	if meta["image_id"] != "caller-wins" {
		t.Fatalf("caller metadata must win on collision, got %v", meta["image_id"])
	}
	if meta["batch"] != "b-7" {
		t.Fatalf("caller metadata must be carried, got %v", meta["batch"])
	}
	preview, _ := meta["text"].(string)
	if len([]rune(preview)) != 200 {
		t.Fatalf("expected 200-rune text preview, got %d", len([]rune(preview)))
	}
}

func TestProcessOCRValidatesEvent(t *testing.T) {
	uc := newWebhookUC(newFakeTaskRepo(), &fakeQueue{}, &fakeAuditLogger{}, time.Now())

	_, err := uc.ProcessOCR(context.Background(), "u-1", domain.OCREvent{Source: "email-gateway"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessOCRSucceedsWhenPublishFails(t *testing.T) {
	tasks := newFakeTaskRepo()
	queue := &fakeQueue{failPublish: context.DeadlineExceeded}
	uc := newWebhookUC(tasks, queue, &fakeAuditLogger{}, time.Now())

	result, err := uc.ProcessOCR(context.Background(), "u-1", adEvent())
	if err != nil {
		t.Fatalf("ProcessOCR() error = %v", err)
	}
	if !result.Processed {
		t.Fatalf("task creation must succeed even when publish fails")
	}
	if len(tasks.tasks) != 1 {
		t.Fatalf("expected stored task, got %d", len(tasks.tasks))
	}
}
