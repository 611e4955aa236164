package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/moviebot/core/logger"
)

// Outcome values reported in a Decision.
const (
	OutcomeOK        = "ok"
	OutcomeSkip      = "skip"
	OutcomeFail      = "fail"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Decision summarises how one update was handled.
type Decision struct {
	Kind     string
	Route    string
	Outcome  string
	Reason   string
	ChatID   int64
	Messages int
	Duration time.Duration
}

// Observer receives one Decision per update.
type Observer interface {
	Observe(ctx context.Context, d Decision)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, d Decision)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, d Decision) { f(ctx, d) }

// Observers fans a Decision out to every member.
type Observers []Observer

// Observe forwards d to all observers in order.
func (o Observers) Observe(ctx context.Context, d Decision) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ctx, d)
		}
	}
}

// LogObserver writes each decision as a structured log line.
type LogObserver struct{}

// Observe logs d under component "dispatch".
func (LogObserver) Observe(ctx context.Context, d Decision) {
	level := slog.LevelInfo
	switch d.Outcome {
	case OutcomeSkip:
		level = slog.LevelDebug
	case OutcomeError:
		level = slog.LevelError
	case OutcomeFail:
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("kind", d.Kind),
		slog.String("route", d.Route),
		slog.String("outcome", d.Outcome),
		slog.Int("messages", d.Messages),
		slog.Int64("duration_ms", logger.RoundMS(d.Duration).Milliseconds()),
	}
	if d.Reason != "" {
		attrs = append(attrs, slog.String("reason", d.Reason))
	}
	logger.Event(ctx, "dispatch", level, "dispatch.decision", attrs...)
}
