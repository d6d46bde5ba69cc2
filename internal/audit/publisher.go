package audit

import (
	"context"
	"log/slog"
	"time"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

// Sink is an optional secondary destination (the Kafka producer). The store
// remains the source of truth; sinks are best-effort fan-out.
type Sink interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// Emit is best-effort: a broken audit pipeline must not block a purchase,
// so failures are logged and swallowed.
type Publisher struct {
	store  storage.AuditStore
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(store storage.AuditStore, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event domain.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit store append failed",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit sink publish failed",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
}

func (p *Publisher) List(ctx context.Context, userID string) ([]domain.AuditEvent, error) {
	return p.store.ListByUser(ctx, userID)
}
