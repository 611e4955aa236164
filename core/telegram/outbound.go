package telegram

import (
	"context"

	tgsender "github.com/m3rciful/moviebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Outbound is the send side of the chat transport as seen by bot handlers.
// Every method blocks until Telegram accepted the call or retries were exhausted.
type Outbound interface {
	SendText(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tele.ReplyMarkup) error
	Answer(ctx context.Context, callbackID, text string) error
}

// BotAPI is the subset of the telebot client used for outbound calls.
type BotAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// BotOutbound sends HTML messages through telebot, routing every call via the
// sender dispatcher so that transient failures are retried.
type BotOutbound struct {
	api    BotAPI
	sender *tgsender.Dispatcher
}

// NewOutbound wires an Outbound on top of the bot API. A nil sender runs calls directly.
func NewOutbound(api BotAPI, sender *tgsender.Dispatcher) *BotOutbound {
	return &BotOutbound{api: api, sender: sender}
}

func (o *BotOutbound) do(ctx context.Context, action, endpoint string, run func() error) error {
	if o.sender == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return run()
	}
	return o.sender.Do(ctx, action, endpoint, run)
}

func htmlOptions(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup}
}

// SendText sends an HTML text message.
func (o *BotOutbound) SendText(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	return o.do(ctx, "send.text", "sendMessage", func() error {
		_, err := o.api.Send(tele.ChatID(chatID), text, htmlOptions(markup))
		return err
	})
}

// SendPhoto sends a photo by URL with an HTML caption.
func (o *BotOutbound) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tele.ReplyMarkup) error {
	return o.do(ctx, "send.photo", "sendPhoto", func() error {
		photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
		_, err := o.api.Send(tele.ChatID(chatID), photo, htmlOptions(markup))
		return err
	})
}

// Answer acknowledges a callback query, optionally with a toast text.
func (o *BotOutbound) Answer(ctx context.Context, callbackID, text string) error {
	return o.do(ctx, "callback.answer", "answerCallbackQuery", func() error {
		resp := &tele.CallbackResponse{Text: text}
		return o.api.Respond(&tele.Callback{ID: callbackID}, resp)
	})
}
