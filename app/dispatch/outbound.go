package dispatch

import (
	"context"
	"sync/atomic"

	tg "github.com/m3rciful/moviebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// countingOutbound counts messages delivered for the current update.
type countingOutbound struct {
	tg.Outbound
	sent atomic.Int32
}

func (c *countingOutbound) SendText(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	err := c.Outbound.SendText(ctx, chatID, text, markup)
	if err == nil {
		c.sent.Add(1)
	}
	return err
}

func (c *countingOutbound) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tele.ReplyMarkup) error {
	err := c.Outbound.SendPhoto(ctx, chatID, photoURL, caption, markup)
	if err == nil {
		c.sent.Add(1)
	}
	return err
}
