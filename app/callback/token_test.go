package callback

import (
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/moviebot/core/telegram/callbacks"
)

func TestParseValid(t *testing.T) {
	tok, err := Parse("movie_save:abc-123:42")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tok.Action != ActionSave || tok.UserID != "abc-123" || tok.ItemID != 42 {
		t.Fatalf("token = %+v", tok)
	}
	tok, err = Parse("movie_details:6f1c2a7e-8a3b-4c1d-9e2f-0a1b2c3d4e5f:27205")
	if err != nil || tok.Action != ActionDetails || tok.ItemID != 27205 {
		t.Fatalf("details token = %+v, %v", tok, err)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, data := range []string{
		"bad:token",
		"foo:a:b",
		"foo:a:1",
		"movie_save::1",
		"movie_save:u:",
		"movie_save:u:x1",
		"movie_save:u:1:2",
		"",
		"\fmovie_save|u:1",
	} {
		if _, err := Parse(data); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Parse(%q) err = %v, want ErrInvalid", data, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := Token{Action: ActionDetails, UserID: "6f1c2a7e-8a3b-4c1d-9e2f-0a1b2c3d4e5f", ItemID: 1234567}
	data, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Parse(data)
	if err != nil || out != in {
		t.Fatalf("round trip = %+v, %v", out, err)
	}
}

func TestEncodeLimits(t *testing.T) {
	if _, err := (Token{Action: ActionSave, UserID: "a:b", ItemID: 1}).Encode(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("colon in user id: err = %v", err)
	}
	long := Token{Action: ActionDetails, UserID: strings.Repeat("u", 50), ItemID: 1}
	if _, err := long.Encode(); !errors.Is(err, callbacks.ErrTooLong) {
		t.Fatalf("long token: err = %v", err)
	}
}
