package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// ProcessTaskUseCase is the worker side: it dispatches a pending
// unsubscribe task and records the terminal status. This is the only
// place a task ever leaves pending.
type ProcessTaskUseCase struct {
	tasks      ports.TaskRepository
	dispatcher ports.TaskDispatcher
}

func NewProcessTaskUseCase(tasks ports.TaskRepository, dispatcher ports.TaskDispatcher) *ProcessTaskUseCase {
	return &ProcessTaskUseCase{tasks: tasks, dispatcher: dispatcher}
}

func (uc *ProcessTaskUseCase) ProcessByID(ctx context.Context, taskID string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetch task by id: %w", err)
	}
	if task.Status != domain.TaskStatusPending {
		slog.Info("skipping task in terminal state", "task_id", taskID, "status", string(task.Status))
		return nil
	}

	if err := uc.dispatcher.Dispatch(ctx, task); err != nil {
		if updErr := uc.tasks.UpdateStatus(ctx, taskID, domain.TaskStatusFailed, err.Error()); updErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, updErr)
		}
		return err
	}

	if err := uc.tasks.UpdateStatus(ctx, taskID, domain.TaskStatusCompleted, ""); err != nil {
		return fmt.Errorf("mark completed status: %w", err)
	}
	return nil
}
