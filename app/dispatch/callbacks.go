package dispatch

import (
	"context"
	"log/slog"

	"github.com/m3rciful/moviebot/app/callback"
	"github.com/m3rciful/moviebot/core/logger"
	tg "github.com/m3rciful/moviebot/core/telegram"
)

// handleCallback acknowledges the button press once, before anything else,
// and then runs the encoded action.
func (d *Dispatcher) handleCallback(ctx context.Context, out tg.Outbound, u tg.Update) (result, error) {
	answerText := ""
	if u.ChatID == 0 {
		answerText = msgNoMessage
	}
	// The acknowledgement must go out even while shutting down.
	if err := out.Answer(context.WithoutCancel(ctx), u.CallbackID, answerText); err != nil {
		logger.Warn(ctx, "dispatch", "callback.answer_failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
	if u.ChatID == 0 {
		return failed(RouteCallback, "no_chat"), nil
	}

	tok, err := callback.Parse(u.CallbackData)
	if err != nil {
		logger.Debug(ctx, "dispatch", "callback.invalid",
			slog.String("err", logger.SanitizeLimit(err.Error(), 128)),
		)
		return failed(RouteCallback, "invalid_token"), out.SendText(ctx, u.ChatID, msgInvalidData, nil)
	}

	switch tok.Action {
	case callback.ActionDetails:
		return d.handleDetails(ctx, out, u.ChatID, tok)
	default:
		return d.handleSave(ctx, out, u.ChatID, tok)
	}
}

// handleDetails always fetches the current item; the item cache is not touched.
func (d *Dispatcher) handleDetails(ctx context.Context, out tg.Outbound, chatID int64, tok callback.Token) (result, error) {
	it, found := d.backend.Item(ctx, tok.UserID, tok.ItemID)
	if !found {
		if ctx.Err() != nil {
			return abandoned(RouteDetails), nil
		}
		return failed(RouteDetails, reasonBackend), out.SendText(ctx, chatID, msgDetailsFailed, nil)
	}
	return ok(RouteDetails), d.responder.Send(ctx, out, chatID, it, d.responder.Format(it), nil)
}

// handleSave posts the cached payload unchanged. A cache miss never reaches the backend.
func (d *Dispatcher) handleSave(ctx context.Context, out tg.Outbound, chatID int64, tok callback.Token) (result, error) {
	it, cached := d.items.Get(tok.UserID, tok.ItemID)
	if !cached {
		return failed(RouteSave, "cache_miss"), out.SendText(ctx, chatID, msgItemNotFound, nil)
	}
	if !d.backend.Save(ctx, tok.UserID, it.Raw) {
		if ctx.Err() != nil {
			return abandoned(RouteSave), nil
		}
		return failed(RouteSave, reasonBackend), out.SendText(ctx, chatID, msgSaveFailed, nil)
	}
	return ok(RouteSave), out.SendText(ctx, chatID, msgSaved, nil)
}
