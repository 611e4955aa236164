// Package callback encodes the inline button payload "<action>:<userId>:<itemId>".
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/moviebot/core/telegram/callbacks"
)

// Action names a button.
type Action string

const (
	// ActionDetails re-fetches and shows an item.
	ActionDetails Action = "movie_details"
	// ActionSave stores the cached item in the user's list.
	ActionSave Action = "movie_save"

	sep = ":"
)

// ErrInvalid reports a payload that is not a well-formed token.
var ErrInvalid = errors.New("callback: invalid data")

// Token is a decoded button payload.
type Token struct {
	Action Action
	UserID string
	ItemID int64
}

// Parse validates and decodes a payload.
func Parse(data string) (Token, error) {
	parts, err := callbacks.Split(data, sep, 3)
	if err != nil {
		return Token{}, fmt.Errorf("%w: want 3 fields", ErrInvalid)
	}
	action := Action(parts[0])
	if action != ActionDetails && action != ActionSave {
		return Token{}, fmt.Errorf("%w: unknown action %q", ErrInvalid, parts[0])
	}
	if parts[1] == "" {
		return Token{}, fmt.Errorf("%w: empty user id", ErrInvalid)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: item id %q", ErrInvalid, parts[2])
	}
	return Token{Action: action, UserID: parts[1], ItemID: id}, nil
}

// Encode renders the payload, failing when it exceeds Telegram's 64-byte limit
// or the user id would break the field layout.
func (t Token) Encode() (string, error) {
	if t.UserID == "" || strings.Contains(t.UserID, sep) {
		return "", fmt.Errorf("%w: user id %q", ErrInvalid, t.UserID)
	}
	return callbacks.Join(sep, string(t.Action), t.UserID, strconv.FormatInt(t.ItemID, 10))
}
