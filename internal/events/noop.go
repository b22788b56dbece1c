package events

import (
	"context"
	"log/slog"
)

// LogPublisher records SDK events in the log instead of a host document.
// Headless hosts (CLI, servers) use it where no page listens for events.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishPricesReady(ctx context.Context) error {
	p.logger.DebugContext(ctx, "event::prices_ready")
	return nil
}
