// Package movie holds the catalog item as the bot sees it.
package movie

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m3rciful/moviebot/core/telegram/format"
)

// ErrMalformed reports an item payload that lacks a required field.
var ErrMalformed = errors.New("movie: malformed item")

// Item is a catalog entry. Raw keeps the exact JSON received from the backend
// so that a save sends back byte-identical content.
type Item struct {
	ID          int64
	Title       string
	ReleaseDate string
	Rating      float64
	Overview    string
	PosterPath  string
	Raw         json.RawMessage
}

type wireItem struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	Rating      *float64 `json:"vote_average"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
}

// Decode parses one item. id, title and vote_average are required; the other
// fields default to their zero values. The id keys the save cache, so an item
// without one cannot be offered for saving.
func Decode(raw []byte) (Item, error) {
	var w wireItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return Item{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.ID == nil {
		return Item{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	if w.Title == nil {
		return Item{}, fmt.Errorf("%w: missing title", ErrMalformed)
	}
	if w.Rating == nil {
		return Item{}, fmt.Errorf("%w: missing vote_average", ErrMalformed)
	}
	buf := make(json.RawMessage, len(raw))
	copy(buf, raw)
	return Item{
		ID:          *w.ID,
		Title:       *w.Title,
		ReleaseDate: format.DerefString(w.ReleaseDate, ""),
		Rating:      *w.Rating,
		Overview:    format.DerefString(w.Overview, ""),
		PosterPath:  format.DerefString(w.PosterPath, ""),
		Raw:         buf,
	}, nil
}

// HasPoster reports whether the item carries a poster reference.
func (it Item) HasPoster() bool {
	return it.PosterPath != ""
}
