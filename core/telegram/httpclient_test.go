package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func okResponse() *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("ok"))}
}

func TestRetryTransportRetriesGet(t *testing.T) {
	calls := 0
	rt := &retryTransport{
		base: roundTripFunc(func(*http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
			}
			return okResponse(), nil
		}),
		maxRetries: 2,
		backoff:    time.Millisecond,
	}
	req, _ := http.NewRequest(http.MethodGet, "http://backend/movie/random", nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryTransportSkipsUnsafePost(t *testing.T) {
	calls := 0
	rt := &retryTransport{
		base: roundTripFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
		}),
		maxRetries: 2,
		backoff:    time.Millisecond,
	}
	req, _ := http.NewRequest(http.MethodPost, "http://backend/movie/u/save", strings.NewReader("{}"))
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (POST is not retried)", calls)
	}
}

func TestRetryTransportUnsafeReplaysBody(t *testing.T) {
	var bodies []string
	rt := &retryTransport{
		base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			b, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(b))
			if len(bodies) == 1 {
				return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
			}
			return okResponse(), nil
		}),
		maxRetries: 1,
		backoff:    time.Millisecond,
		unsafe:     true,
	}
	req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", strings.NewReader("chat_id=1"))
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()
	if len(bodies) != 2 || bodies[1] != "chat_id=1" {
		t.Fatalf("bodies = %q, want body replayed", bodies)
	}
}
