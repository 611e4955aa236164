// Package render turns catalog items into Telegram messages.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/moviebot/app/callback"
	"github.com/m3rciful/moviebot/app/movie"
	"github.com/m3rciful/moviebot/core/logger"
	tg "github.com/m3rciful/moviebot/core/telegram"
	"github.com/m3rciful/moviebot/core/telegram/format"
	"github.com/m3rciful/moviebot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const (
	// CaptionLimit is Telegram's photo caption limit in characters.
	CaptionLimit = 1024
	// TextLimit is Telegram's message length limit in characters.
	TextLimit = 4096

	// UnknownYear replaces a missing or unparseable release date.
	UnknownYear = "unknown year"
	noOverview  = "no description"

	// DefaultPosterBase is the TMDB image prefix for poster paths.
	DefaultPosterBase = "https://image.tmdb.org/t/p/w500"

	labelDetails = "ℹ️ Details"
	labelSave    = "💾 Save"
)

var leadingYear = regexp.MustCompile(`^(\d{4})`)

// Responder formats items and sends them as photo or text messages.
type Responder struct {
	posterBase string
}

// NewResponder builds a Responder. An empty posterBase selects DefaultPosterBase.
func NewResponder(posterBase string) *Responder {
	posterBase = strings.TrimRight(strings.TrimSpace(posterBase), "/")
	if posterBase == "" {
		posterBase = DefaultPosterBase
	}
	return &Responder{posterBase: posterBase}
}

// Year extracts the release year, or UnknownYear.
func Year(releaseDate string) string {
	releaseDate = strings.TrimSpace(releaseDate)
	if t, err := time.Parse(time.DateOnly, releaseDate); err == nil {
		return fmt.Sprintf("%04d", t.Year())
	}
	if m := leadingYear.FindStringSubmatch(releaseDate); m != nil {
		return m[1]
	}
	return UnknownYear
}

// Format renders the item as HTML.
func (r *Responder) Format(it movie.Item) string {
	return r.format(it, it.Overview)
}

func (r *Responder) format(it movie.Item, overview string) string {
	if strings.TrimSpace(overview) == "" {
		overview = noOverview
	}
	return fmt.Sprintf("🎬 <b>%s</b>\n📅 Year: %s\n⭐ Rating: %s\n📝 %s",
		format.EscapeHTML(it.Title),
		Year(it.ReleaseDate),
		strconv.FormatFloat(it.Rating, 'f', -1, 64),
		format.EscapeHTML(overview),
	)
}

// fit rebuilds the text with a shortened overview so it stays within limit.
// Only the overview is cut so markup is never split.
func (r *Responder) fit(it movie.Item, text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	over := utf8.RuneCountInString(text) - limit
	keep := utf8.RuneCountInString(it.Overview) - over - 8
	for keep > 0 {
		candidate := r.format(it, format.TruncateRunes(it.Overview, keep))
		if utf8.RuneCountInString(candidate) <= limit {
			return candidate
		}
		keep -= 16
	}
	return format.TruncateRunes(r.format(it, noOverview), limit)
}

// Buttons builds the details/save row. It returns nil when the payload cannot
// be encoded, in which case the item is sent without actions.
func (r *Responder) Buttons(userID string, itemID int64) *tele.ReplyMarkup {
	details, err := callback.Token{Action: callback.ActionDetails, UserID: userID, ItemID: itemID}.Encode()
	if err != nil {
		return nil
	}
	save, err := callback.Token{Action: callback.ActionSave, UserID: userID, ItemID: itemID}.Encode()
	if err != nil {
		return nil
	}
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: labelDetails, Data: details},
		{Text: labelSave, Data: save},
	})
}

// PosterURL returns the absolute poster URL of the item, or "".
func (r *Responder) PosterURL(it movie.Item) string {
	if !it.HasPoster() {
		return ""
	}
	if strings.HasPrefix(it.PosterPath, "http://") || strings.HasPrefix(it.PosterPath, "https://") {
		return it.PosterPath
	}
	return r.posterBase + "/" + strings.TrimLeft(it.PosterPath, "/")
}

// Send delivers text for the item: a photo with caption when the item has a
// poster, a text message otherwise. markup may be nil.
func (r *Responder) Send(ctx context.Context, out tg.Outbound, chatID int64, it movie.Item, text string, markup *tele.ReplyMarkup) error {
	if poster := r.PosterURL(it); poster != "" {
		caption := r.fit(it, text, CaptionLimit)
		if caption != text {
			logger.Debug(ctx, "tg", "render.caption_truncated",
				slog.Int64("item_id", it.ID),
				slog.Int("len", utf8.RuneCountInString(text)),
			)
		}
		return out.SendPhoto(ctx, chatID, poster, caption, markup)
	}
	return out.SendText(ctx, chatID, r.fit(it, text, TextLimit), markup)
}
