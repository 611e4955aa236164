package dispatch

import (
	"context"
	"log/slog"

	"github.com/m3rciful/moviebot/core/logger"
)

// Resolution is the outcome of identity resolution: Resolved or Unresolved.
type Resolution interface {
	resolution()
}

// Resolved carries the backend user id of a chat.
type Resolved struct {
	UserID string
	// Cached is true when the id came from the identity cache.
	Cached bool
}

// Unresolved explains why no user id is available.
type Unresolved struct {
	Reason string
}

func (Resolved) resolution()   {}
func (Unresolved) resolution() {}

const (
	reasonBackend   = "backend"
	reasonCancelled = "cancelled"
)

// resolve returns the user id for chatID. With refresh set the cache is
// bypassed and the backend is always asked. The cache is written only on success.
func (d *Dispatcher) resolve(ctx context.Context, chatID int64, refresh bool) Resolution {
	if !refresh {
		if id, ok := d.identities.Get(chatID); ok {
			return Resolved{UserID: id, Cached: true}
		}
	}
	id, ok := d.backend.ResolveUser(ctx, chatID)
	if !ok {
		if ctx.Err() != nil {
			return Unresolved{Reason: reasonCancelled}
		}
		return Unresolved{Reason: reasonBackend}
	}
	d.identities.Set(chatID, id)
	logger.Debug(ctx, "dispatch", "identity.resolved",
		slog.String("backend_user", id),
		slog.Bool("refresh", refresh),
	)
	return Resolved{UserID: id}
}
