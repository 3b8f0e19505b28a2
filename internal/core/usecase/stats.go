package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

type StatsUseCase struct {
	docs  ports.DocumentRepository
	assoc ports.AssociationRepository
	usage ports.UsageRecorder
	tasks ports.TaskRepository
	clock ports.Clock
}

func NewStatsUseCase(
	docs ports.DocumentRepository,
	assoc ports.AssociationRepository,
	usage ports.UsageRecorder,
	tasks ports.TaskRepository,
	clock ports.Clock,
) *StatsUseCase {
	return &StatsUseCase{docs: docs, assoc: assoc, usage: usage, tasks: tasks, clock: clock}
}

func (uc *StatsUseCase) Snapshot(ctx context.Context) (*domain.Stats, error) {
	docsTotal, err := uc.docs.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	foldersTotal, err := uc.assoc.CountDistinctPrimaryTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}

	now := uc.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	actionsMonth, err := uc.usage.CountSince(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("count actions: %w", err)
	}

	dayStart := startOfDay(now)
	tasksToday, err := uc.tasks.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	return &domain.Stats{
		DocsTotal:    docsTotal,
		FoldersTotal: foldersTotal,
		ActionsMonth: actionsMonth,
		TasksToday:   tasksToday,
	}, nil
}
