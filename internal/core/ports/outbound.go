package ports

import (
	"context"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

// TagRepository persists owner-scoped tags. FindOrCreate must be an
// atomic insert-if-absent backed by the (owner_id, name) uniqueness
// constraint; concurrent first-use of the same name yields one row.
type TagRepository interface {
	FindOrCreate(ctx context.Context, ownerID, name string) (*domain.Tag, bool, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Tag, error)
	GetByName(ctx context.Context, ownerID, name string) (*domain.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Tag, error)
}

// DocumentRepository persists documents. FindByIDs silently drops ids
// that are missing or owned by someone else; callers decide whether an
// empty result is an error. Delete exists only as the compensating
// action for a failed primary-tag attachment.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Document, error)
	FindByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Document, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Search(ctx context.Context, ownerID, query string, ids []string) ([]domain.Document, error)
	CountAll(ctx context.Context) (int, error)
}

// AssociationRepository owns the document/tag link table and its two
// invariants: (document_id, tag_id) unique, and at most one primary
// association per document.
type AssociationRepository interface {
	AttachPrimary(ctx context.Context, documentID, tagID string) error
	AttachSecondary(ctx context.Context, documentID, tagID string) error
	PrimaryTagIDs(ctx context.Context, documentIDs []string) (map[string]string, error)
	DocumentIDsWithPrimaryTag(ctx context.Context, tagID string) ([]string, error)
	CountDistinctPrimaryTags(ctx context.Context) (int, error)
}

// TaskRepository persists unsubscribe tasks. CreateIfUnderLimit counts
// tasks for (user, channel) inside the window and inserts only when the
// count is below limit, in one transactional unit, reporting whether
// the row was created.
type TaskRepository interface {
	CreateIfUnderLimit(ctx context.Context, task *domain.Task, windowStart, windowEnd time.Time, limit int) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, errMessage string) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// AuditLogger records domain events. Implementations must never let an
// audit failure fail the recorded operation.
type AuditLogger interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// UsageRecorder tracks credit usage per action run. Billing is out of
// scope; only the raw records and counts live here.
type UsageRecorder interface {
	Record(ctx context.Context, userID, action string, credits int) error
	CountSince(ctx context.Context, from time.Time) (int, error)
}

// MessageQueue hands created task ids to the worker.
type MessageQueue interface {
	PublishTaskCreated(ctx context.Context, taskID string) error
	SubscribeTaskCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// TaskDispatcher performs the unsubscribe described by a task.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, task *domain.Task) error
}

// TextExtractor recovers plain text from an uploaded binary body.
type TextExtractor interface {
	Extract(ctx context.Context, mime string, data []byte) (string, error)
}

// SpreadsheetEncoder renders action result rows as a binary workbook.
type SpreadsheetEncoder interface {
	Encode(rows []ActionRow) ([]byte, error)
}

// ActionRow is one line of a generated tabular artifact.
type ActionRow struct {
	ID    int
	Title string
	Value int
}

// Clock abstracts the wall clock so day-window logic is testable.
type Clock interface {
	Now() time.Time
}
