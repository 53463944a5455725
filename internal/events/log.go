package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to a structured logger. It is the fallback sink
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "asset event",
		"event_id", e.ID,
		"event_type", string(e.Type),
		"mint", e.Mint,
		"account", e.Account,
		"changed", e.Changed,
		"request_id", e.RequestID,
	)
	return nil
}
