package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Kind classifies an inbound update at the transport level.
type Kind int

const (
	// KindUnsupported marks updates the bot does not route (edits, joins, media).
	KindUnsupported Kind = iota
	// KindMessage is a text message: a command or free text.
	KindMessage
	// KindCallback is an inline button press.
	KindCallback
)

// String returns the log-friendly name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindCallback:
		return "callback"
	default:
		return "unsupported"
	}
}

// Update is the transport-neutral view of a Telegram update consumed by bot handlers.
type Update struct {
	ID     int
	Kind   Kind
	ChatID int64
	UserID int64
	Text   string

	CallbackID   string
	CallbackData string
}

// Command splits a message into its command word, dropping a trailing @botname
// and any arguments. It reports false when the text is not a slash command.
func (u Update) Command() (string, bool) {
	if u.Kind != KindMessage {
		return "", false
	}
	text := strings.TrimSpace(u.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := text
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	if i := strings.IndexByte(word, '@'); i >= 0 {
		word = word[:i]
	}
	return word, true
}

// UpdateFromContext converts the telebot context into an Update.
func UpdateFromContext(c tele.Context) Update {
	upd := c.Update()
	u := Update{ID: upd.ID}
	if sender := c.Sender(); sender != nil {
		u.UserID = sender.ID
	}
	switch {
	case upd.Callback != nil:
		cb := upd.Callback
		u.Kind = KindCallback
		u.CallbackID = cb.ID
		u.CallbackData = cb.Data
		if cb.Unique != "" {
			// telebot strips "\f<unique>|" when a unique handler matched; restore the raw token.
			u.CallbackData = "\f" + cb.Unique + "|" + cb.Data
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			u.ChatID = cb.Message.Chat.ID
		}
	case upd.Message != nil:
		u.Kind = KindMessage
		u.Text = upd.Message.Text
		if upd.Message.Chat != nil {
			u.ChatID = upd.Message.Chat.ID
		}
	}
	return u
}
