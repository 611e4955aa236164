package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/moviebot/core/logger"
	tghelpers "github.com/m3rciful/moviebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware assigns the request id, caches the update context and logs
// a sampled receipt line. A second application is a no-op.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if rid, _ := c.Get("rid").(string); rid != "" {
			return next(c)
		}
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}
		c.Set("rid", logger.BuildRID(c.Update().ID, chatID, userID))
		c.Set("update_start", time.Now())

		ctx := tghelpers.BuildContext(c)
		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

// receiptAttrs describes the update without its text: length only for messages,
// action and payload for button presses.
func receiptAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", "ok")}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}
	upd := c.Update()
	switch {
	case upd.Callback != nil:
		action, payload := splitCallback(upd.Callback)
		attrs = append(attrs,
			slog.String("action", logger.SanitizeLimit(action, 64)),
			slog.String("payload", logger.SanitizeLimit(payload, 128)),
		)
	case upd.Message != nil:
		attrs = append(attrs, slog.Int("text_len", len(c.Text())))
	}
	return attrs
}

// splitCallback separates the action prefix of "action:rest" button data.
func splitCallback(cb *tele.Callback) (string, string) {
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	action, payload, _ := strings.Cut(cb.Data, ":")
	return strings.TrimSpace(action), payload
}
