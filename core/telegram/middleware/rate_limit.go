package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/moviebot/core/logger"
	tghelpers "github.com/m3rciful/moviebot/core/telegram/helpers"
	"golang.org/x/time/rate"

	tele "gopkg.in/telebot.v4"
)

const (
	defaultIdleTTL = 10 * time.Minute
	// sweepEvery is the number of lookups between idle-bucket sweeps.
	sweepEvery = 1024
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Burst     int
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// IdleTTL drops the bucket of a chat silent for this long. Defaults to 10m.
	IdleTTL time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per chat and sweeps idle ones
// every sweepEvery lookups.
type limiterSet struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
	lookups int
	buckets map[int64]*bucket
}

func newLimiterSet(every rate.Limit, burst int, ttl time.Duration) *limiterSet {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &limiterSet{
		every:   every,
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		buckets: make(map[int64]*bucket),
	}
}

func (s *limiterSet) allow(id int64) bool {
	now := s.now()
	s.mu.Lock()
	// Sweep before the lookup so a stale bucket for id starts over.
	if s.lookups++; s.lookups >= sweepEvery {
		s.lookups = 0
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) >= s.ttl {
				delete(s.buckets, k)
			}
		}
	}
	b, ok := s.buckets[id]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.every, s.burst)}
		s.buckets[id] = b
	}
	b.lastSeen = now
	s.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// updateKind names the update type the way rate_limit.exclude_updates does.
func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	default:
		return "other"
	}
}

// RateLimitMiddleware drops updates from a chat that exceeds one update per
// Interval, allowing short bursts of Burst updates.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	set := newLimiterSet(rate.Every(opts.Interval), opts.Burst, opts.IdleTTL)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Interval <= 0 {
				return next(c)
			}
			kind := updateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			var key int64
			if chat := c.Chat(); chat != nil {
				key = chat.ID
			} else if user := c.Sender(); user != nil {
				key = user.ID
			} else {
				return next(c)
			}

			if set.allow(key) {
				return next(c)
			}

			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.String("status", "skip"),
				slog.String("kind", kind),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
