package ports

import (
	"context"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

// DocumentService is the inbound contract for upload, folder reads and
// scoped search.
type DocumentService interface {
	Upload(ctx context.Context, ownerID string, upload domain.DocumentUpload) (*domain.Document, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Document, error)
	ListFolders(ctx context.Context, ownerID string) ([]domain.Folder, error)
	ListFolderDocuments(ctx context.Context, ownerID, identifier string) ([]domain.Document, error)
	Search(ctx context.Context, ownerID, query string, scope *domain.Scope) ([]domain.Document, error)
}

// ActionRunner executes generation actions over a document scope.
type ActionRunner interface {
	Run(ctx context.Context, ownerID string, req domain.ActionRequest) (*domain.ActionResult, error)
}

// WebhookProcessor classifies inbound OCR text and creates unsubscribe
// tasks under the per-sender daily cap.
type WebhookProcessor interface {
	ProcessOCR(ctx context.Context, userID string, event domain.OCREvent) (*domain.WebhookResult, error)
}

// TaskProcessor is the worker-side contract for executing a task.
type TaskProcessor interface {
	ProcessByID(ctx context.Context, taskID string) error
}

// StatsProvider reports the operational snapshot.
type StatsProvider interface {
	Snapshot(ctx context.Context) (*domain.Stats, error)
}
