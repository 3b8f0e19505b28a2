package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/infrastructure/resilience"
)

// Connectivity failures worth another attempt; anything else is treated
// as permanent for this publish.
var transientNATSErrors = []error{
	nats.ErrNoServers,
	nats.ErrTimeout,
	nats.ErrConnectionClosed,
	nats.ErrDisconnected,
}

func classifyNATSError(err error) resilience.Verdict {
	switch {
	case err == nil:
		return resilience.Verdict{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Verdict{Retryable: false, RecordFailure: false}
	case resilience.IsCircuitOpen(err):
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}

	for _, transient := range transientNATSErrors {
		if errors.Is(err, transient) {
			return resilience.Verdict{Retryable: true, RecordFailure: true}
		}
	}
	return resilience.Verdict{Retryable: false, RecordFailure: true}
}

// wrapTemporaryIfNeeded tags retryable publish failures as ErrTemporary
// so the HTTP layer can answer 503 instead of 500.
func wrapTemporaryIfNeeded(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err).Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "nats publish", err)
	}
	return err
}
