package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/moviebot/core/logger"
	tg "github.com/m3rciful/moviebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// handleStart refreshes the chat identity, then greets and shows the menu.
func (d *Dispatcher) handleStart(ctx context.Context, out tg.Outbound, chatID int64) (result, error) {
	switch r := d.resolve(ctx, chatID, true).(type) {
	case Unresolved:
		if r.Reason == reasonCancelled {
			return abandoned(RouteStart), nil
		}
		return failed(RouteStart, r.Reason), out.SendText(ctx, chatID, msgSessionFailed, nil)
	case Resolved:
		if err := out.SendText(ctx, chatID, msgGreeting, nil); err != nil {
			return ok(RouteStart), err
		}
		return ok(RouteStart), out.SendText(ctx, chatID, d.menu, nil)
	}
	return result{}, errors.New("dispatch: unknown resolution")
}

// handleRandom sends a random item. Buttons are attached only when the chat
// already has an identity; no resolve call is made for it.
func (d *Dispatcher) handleRandom(ctx context.Context, out tg.Outbound, chatID int64) (result, error) {
	it, found := d.backend.Random(ctx)
	if !found {
		if ctx.Err() != nil {
			return abandoned(RouteRandom), nil
		}
		return failed(RouteRandom, reasonBackend), out.SendText(ctx, chatID, msgRandomFailed, nil)
	}

	var markup *tele.ReplyMarkup
	res := ok(RouteRandom)
	if userID, cached := d.identities.Get(chatID); cached {
		d.items.Set(userID, it.ID, it)
		markup = d.responder.Buttons(userID, it.ID)
	} else {
		res.reason = "anonymous"
	}
	return res, d.responder.Send(ctx, out, chatID, it, d.responder.Format(it), markup)
}

// handleSearchCommand warms the identity cache while the user types the query,
// then waits for it. A failed resolve is retried when the query arrives.
func (d *Dispatcher) handleSearchCommand(ctx context.Context, out tg.Outbound, chatID int64) (result, error) {
	res := ok(RouteSearch)
	if r, miss := d.resolve(ctx, chatID, false).(Unresolved); miss {
		if r.Reason == reasonCancelled {
			return abandoned(RouteSearch), nil
		}
		res.reason = "identity_deferred"
	}
	d.sessions.MarkAwaitingSearch(chatID)
	return res, out.SendText(ctx, chatID, msgSearchPrompt, nil)
}

// handleSearchText runs the pending search. The awaiting flag is already consumed.
func (d *Dispatcher) handleSearchText(ctx context.Context, out tg.Outbound, chatID int64, text string) (result, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		d.sessions.MarkAwaitingSearch(chatID)
		return result{route: RouteSearchText, outcome: OutcomeSkip, reason: "empty_query"},
			out.SendText(ctx, chatID, msgSearchPrompt, nil)
	}

	var userID string
	switch r := d.resolve(ctx, chatID, false).(type) {
	case Unresolved:
		if r.Reason == reasonCancelled {
			return abandoned(RouteSearchText), nil
		}
		return failed(RouteSearchText, "identity"), out.SendText(ctx, chatID, msgSessionFailed, nil)
	case Resolved:
		userID = r.UserID
	}

	items, found := d.backend.Search(ctx, userID, query)
	if !found {
		if ctx.Err() != nil {
			return abandoned(RouteSearchText), nil
		}
		return failed(RouteSearchText, reasonBackend), out.SendText(ctx, chatID, msgSearchFailed, nil)
	}
	if len(items) == 0 {
		return result{route: RouteSearchText, outcome: OutcomeOK, reason: "empty"},
			out.SendText(ctx, chatID, msgNothingFound, nil)
	}

	var errs []error
	for _, it := range items {
		if ctx.Err() != nil {
			return abandoned(RouteSearchText), nil
		}
		d.items.Set(userID, it.ID, it)
		err := d.responder.Send(ctx, out, chatID, it, d.responder.Format(it), d.responder.Buttons(userID, it.ID))
		if err != nil {
			logger.Warn(ctx, "dispatch", "search.send_failed",
				slog.Int64("item_id", it.ID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			errs = append(errs, err)
		}
	}
	return ok(RouteSearchText), errors.Join(errs...)
}
