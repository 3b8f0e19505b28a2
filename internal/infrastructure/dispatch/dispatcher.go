// Package dispatch executes unsubscribe tasks against their targets.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/infrastructure/resilience"
)

// UnsubscribeDispatcher follows http(s) unsubscribe targets with a GET
// request. Mail targets have no outbound mail path here, so they are
// acknowledged and left to the audit trail.
type UnsubscribeDispatcher struct {
	client   *http.Client
	executor *resilience.Executor
}

func NewUnsubscribeDispatcher(timeout time.Duration, executor *resilience.Executor) *UnsubscribeDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UnsubscribeDispatcher{
		client:   &http.Client{Timeout: timeout},
		executor: executor,
	}
}

func (d *UnsubscribeDispatcher) Dispatch(ctx context.Context, task *domain.Task) error {
	target := strings.TrimSpace(task.Target)
	if target == "" {
		return domain.WrapError(domain.ErrInvalidInput, "dispatch task", fmt.Errorf("task %s has no target", task.ID))
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return d.followLink(ctx, task.ID, target)
	}

	// mailto: or bare address
	slog.Info("unsubscribe target is a mail address, recording without sending",
		"task_id", task.ID, "target", target)
	return nil
}

func (d *UnsubscribeDispatcher) followLink(ctx context.Context, taskID, target string) error {
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("build unsubscribe request: %w", err)
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("follow unsubscribe link: %w", err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unsubscribe link returned %d: %w", resp.StatusCode, errUpstream)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("unsubscribe link returned %d", resp.StatusCode)
		}
		slog.Info("unsubscribe link followed", "task_id", taskID, "status", resp.StatusCode)
		return nil
	}

	if d.executor != nil {
		return d.executor.Execute(ctx, "dispatch.unsubscribe", call, classifyDispatchError)
	}
	return call(ctx)
}

var errUpstream = errors.New("upstream failure")

func classifyDispatchError(err error) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{Retryable: false, RecordFailure: false}
	}
	if errors.Is(err, errUpstream) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	return resilience.Verdict{Retryable: false, RecordFailure: true}
}
