package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/moviebot/core/config"
	"github.com/m3rciful/moviebot/core/logger"
)

// ServiceProviderFunc builds application services once logging is live.
type ServiceProviderFunc[T any] func(ctx context.Context, cfg *coreconfig.Config) (T, error)

// Options control the generic bootstrap pipeline shared between bots.
type Options[T any] struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Services   ServiceProviderFunc[T]
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result[T any] struct {
	Services T
	Took     time.Duration
}

// Run initializes the logger and then the application services.
func Run[T any](ctx context.Context, opts Options[T]) (*Result[T], error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	if opts.Services == nil {
		return nil, fmt.Errorf("bootstrap: nil service provider")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	start := time.Now()
	services, err := opts.Services(ctx, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: services initialization failed: %w", err)
	}
	took := time.Since(start)

	logger.Info(ctx, "app", "bootstrap.done",
		slog.String("status", "ok"),
		slog.Int64("duration_ms", logger.RoundMS(took).Milliseconds()),
	)
	return &Result[T]{Services: services, Took: took}, nil
}
