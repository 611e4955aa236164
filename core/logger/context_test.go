package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestUpdateMetaRoundTrip(t *testing.T) {
	ctx := WithHandler(WithUpdateMeta(WithRID(context.Background(), "r"), 5, 6, 7), "start")
	if RIDFrom(ctx) != "r" || UpdateIDFrom(ctx) != 5 || UserIDFrom(ctx) != 6 || ChatIDFrom(ctx) != 7 || HandlerFrom(ctx) != "start" {
		t.Fatal("metadata lost")
	}
	if UpdateIDFrom(context.Background()) != 0 || HandlerFrom(context.Background()) != "" {
		t.Fatal("empty context must yield zero values")
	}
}

func TestFromContext(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	if FromContext(WithLogger(context.Background(), l)) != l {
		t.Fatal("stored logger not returned")
	}
	if FromContext(WithLogger(context.Background(), nil)) != L {
		t.Fatal("nil logger must fall back to L")
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("a\x00b\u200bc\td\n", 10); got != "abc\td\n" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeLimit("привет", 3); got != "при" {
		t.Fatalf("got %q", got)
	}
	if SanitizeLimit("x", 0) != "" {
		t.Fatal("zero limit must yield empty string")
	}
}

func TestRID(t *testing.T) {
	rid := BuildRID(35, 36, -1)
	if rid != "35:36:-1" {
		t.Fatalf("rid = %q", rid)
	}
	if got := CompactRID(rid); got != "z.10.-1" {
		t.Fatalf("compact = %q", got)
	}
	for _, in := range []string{"abc", "1:2", "1:x:3"} {
		if CompactRID(in) != in {
			t.Fatalf("CompactRID(%q) changed input", in)
		}
	}
}
