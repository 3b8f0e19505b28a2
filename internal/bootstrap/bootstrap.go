package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/docuvault/internal/config"
	"github.com/kirillkom/docuvault/internal/core/ports"
	"github.com/kirillkom/docuvault/internal/core/usecase"
	"github.com/kirillkom/docuvault/internal/infrastructure/dispatch"
	"github.com/kirillkom/docuvault/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/docuvault/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docuvault/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docuvault/internal/infrastructure/resilience"
	"github.com/kirillkom/docuvault/internal/infrastructure/spreadsheet"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue

	Documents ports.DocumentService
	Actions   ports.ActionRunner
	Webhooks  ports.WebhookProcessor
	Stats     ports.StatsProvider
	Tasks     ports.TaskProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	tagRepo := postgres.NewTagRepository(db)
	docRepo := postgres.NewDocumentRepository(db)
	assocRepo := postgres.NewAssociationRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	usageRepo := postgres.NewUsageRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	clock := systemClock{}
	extractor := pdftext.New()
	encoder := spreadsheet.NewXLSXEncoder()
	dispatcher := dispatch.NewUnsubscribeDispatcher(
		time.Duration(cfg.DispatchTimeoutSeconds)*time.Second, executor)

	uploadUC := usecase.NewUploadDocumentUseCase(tagRepo, docRepo, assocRepo, extractor, auditRepo, clock)
	folderUC := usecase.NewFolderService(tagRepo, docRepo, assocRepo)
	scopes := usecase.NewScopeResolver(folderUC, docRepo)
	searchUC := usecase.NewSearchDocumentsUseCase(docRepo, scopes)

	return &App{
		Config: cfg,
		Queue:  queue,

		Documents: usecase.NewDocumentService(uploadUC, folderUC, searchUC),
		Actions:   usecase.NewRunActionUseCase(docRepo, scopes, usageRepo, auditRepo, encoder, clock),
		Webhooks:  usecase.NewProcessOCRWebhookUseCase(taskRepo, queue, auditRepo, clock),
		Stats:     usecase.NewStatsUseCase(docRepo, assocRepo, usageRepo, taskRepo, clock),
		Tasks:     usecase.NewProcessTaskUseCase(taskRepo, dispatcher),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
