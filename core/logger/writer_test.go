package logger

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestAsyncWriterKeepsHealthySinks(t *testing.T) {
	var good bytes.Buffer
	w := newAsyncWriter([]io.Writer{failingWriter{}, &good, nil}, 4)
	for _, line := range []string{"a\n", "b\n", "c\n"} {
		if err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Flush(); err == nil {
		t.Fatal("flush must report the failing sink")
	}
	if good.String() != "a\nb\nc\n" {
		t.Fatalf("good sink = %q", good.String())
	}
	_ = w.Close()
	if err := w.Write([]byte("late\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("write after close = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, errWriterClosed) {
		t.Fatalf("flush after close = %v", err)
	}
	if err := w.Close(); err == nil {
		t.Fatal("second close must still report the sink error")
	}
}

func TestAsyncWriterCloseDrains(t *testing.T) {
	var buf bytes.Buffer
	w := newAsyncWriter([]io.Writer{&buf}, 64)
	for i := 0; i < 50; i++ {
		_ = w.Write([]byte("x"))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 50 {
		t.Fatalf("wrote %d bytes, want 50", buf.Len())
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(2, 5)
	passed := 0
	for i := 0; i < 50; i++ {
		if s.Allow() {
			passed++
		}
	}
	if passed != 20 {
		t.Fatalf("passed = %d, want 20", passed)
	}
	s.Set(0, 0)
	if !s.Allow() {
		t.Fatal("disabled sampler must pass everything")
	}
	s.Set(9, 3)
	for i := 0; i < 6; i++ {
		if !s.Allow() {
			t.Fatal("num is capped at den")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := map[string][2]int{
		"1/50":  {1, 50},
		" 3/4 ": {3, 4},
		"10":    {1, 10},
		"0":     {0, 0},
		"":      {0, 0},
		"a/b":   {0, 0},
		"-1/5":  {0, 0},
	}
	for in, want := range cases {
		n, d := parseRatioSpec(in)
		if n != want[0] || d != want[1] {
			t.Fatalf("parseRatioSpec(%q) = %d/%d, want %d/%d", in, n, d, want[0], want[1])
		}
	}
}
