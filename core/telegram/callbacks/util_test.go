package callbacks

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitExactFields(t *testing.T) {
	parts, err := Split("movie_save:U1:7", ":", 3)
	if err != nil || parts[0] != "movie_save" || parts[1] != "U1" || parts[2] != "7" {
		t.Fatalf("parts = %q, err = %v", parts, err)
	}
	for _, bad := range []string{"movie_save:U1", "movie_save:U1:7:8", ""} {
		if _, err := Split(bad, ":", 3); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Split(%q) err = %v", bad, err)
		}
	}
}

func TestJoinLimit(t *testing.T) {
	if got, err := Join(":", "movie_details", "u", "1"); err != nil || got != "movie_details:u:1" {
		t.Fatalf("Join = %q, %v", got, err)
	}
	if _, err := Join(":", "movie_details", strings.Repeat("x", 60)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("err = %v, want ErrTooLong", err)
	}
}
