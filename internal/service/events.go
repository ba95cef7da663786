package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/internship-portal/internal/metrics"
	"github.com/iliyamo/internship-portal/internal/queue"
)

// EventPublisher hands domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// NopPublisher drops events.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.Event) error { return nil }

// emitter publishes events on behalf of a service.  Publishing is best
// effort: failures are counted and logged but never fail the request that
// caused the event.
type emitter struct {
	pub     EventPublisher
	metrics metrics.Recorder
	logger  *slog.Logger
}

func newEmitter(pub EventPublisher, rec metrics.Recorder, logger *slog.Logger) emitter {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return emitter{pub: pub, metrics: rec, logger: logger}
}

func (e emitter) emit(ctx context.Context, ev queue.Event) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.metrics.RecordEventPublished(string(ev.Type), metrics.OutcomeError)
		e.logger.Warn("publish event failed", "type", string(ev.Type), "err", err)
		return
	}
	e.metrics.RecordEventPublished(string(ev.Type), metrics.OutcomeSuccess)
}
