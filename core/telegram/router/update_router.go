package router

import (
	"context"

	tg "github.com/m3rciful/moviebot/core/telegram"
	tghelpers "github.com/m3rciful/moviebot/core/telegram/helpers"
	"github.com/m3rciful/moviebot/core/telegram/middleware"
	tgsender "github.com/m3rciful/moviebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// UpdateHandler consumes transport-neutral updates. Replies go through out.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, out tg.Outbound, u tg.Update) error
}

// UpdateOptions configures UpdateRoutes.
type UpdateOptions struct {
	// Sender retries outbound calls. Nil sends directly.
	Sender *tgsender.Dispatcher
	// Outbound overrides how the reply side is built for an update.
	Outbound func(c tele.Context) tg.Outbound
}

// UpdateRoutes binds text messages and button callbacks to h.
func UpdateRoutes(h UpdateHandler, opts UpdateOptions) []tg.Route {
	if h == nil {
		return nil
	}
	build := opts.Outbound
	if build == nil {
		build = func(c tele.Context) tg.Outbound {
			return tg.NewOutbound(c.Bot(), opts.Sender)
		}
	}

	handle := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			return handleWithSummary(c, name, func() error {
				ctx := tghelpers.BuildContext(c)
				return h.HandleUpdate(ctx, build(c), tg.UpdateFromContext(c))
			})
		}
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handle("text"))),
		},
		{
			Endpoint: tele.OnCallback,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handle("callback"))),
		},
	}
}
