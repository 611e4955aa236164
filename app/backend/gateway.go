// Package backend talks to the movie catalog service over HTTP/JSON.
//
// Every operation issues one request and reports an optional result: transport
// errors, non-2xx statuses and malformed bodies are logged and turned into
// "absent". Callers never see an error value.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/moviebot/app/movie"
	"github.com/m3rciful/moviebot/core/logger"
	coretelegram "github.com/m3rciful/moviebot/core/telegram"
)

const (
	opResolve = "resolve_user"
	opRandom  = "random"
	opItem    = "item"
	opSearch  = "search"
	opSave    = "save"

	maxBodyBytes = 4 << 20
)

var (
	errStatus    = errors.New("unexpected status")
	errMalformed = errors.New("malformed response")
)

// Options configures a Gateway.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Client overrides the HTTP client. Nil builds the shared retrying client.
	Client *http.Client
	// OnCall observes every call with its outcome: ok, absent or cancelled.
	OnCall func(op, outcome string, took time.Duration)
}

// Gateway is the catalog service client.
type Gateway struct {
	base   *url.URL
	client *http.Client
	onCall func(op, outcome string, took time.Duration)
}

// New validates the base URL and builds a Gateway.
func New(opts Options) (*Gateway, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: invalid base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("backend: base url must be an absolute http(s) url, got %q", opts.BaseURL)
	}
	client := opts.Client
	if client == nil {
		client = coretelegram.NewHTTPClient(coretelegram.HTTPClientOptions{
			Timeout:       opts.Timeout,
			RetryAttempts: 2,
			RetryBackoff:  200 * time.Millisecond,
		})
	}
	return &Gateway{base: base, client: client, onCall: opts.OnCall}, nil
}

func (g *Gateway) endpoint(query url.Values, segments ...string) string {
	u := *g.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = g.base.Path + "/" + strings.Join(segments, "/")
	u.RawPath = g.base.EscapedPath() + "/" + strings.Join(escaped, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call performs one request and returns the body of a 2xx response.
func (g *Gateway) call(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return data, nil
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("%v: %d", errStatus, e.code) }
func (e *statusError) Unwrap() error { return errStatus }

// report logs the call and feeds the OnCall hook.
func (g *Gateway) report(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	took := time.Since(start)
	outcome := "ok"
	level := slog.LevelDebug
	base := []slog.Attr{
		slog.String("op", op),
		slog.Int64("duration_ms", logger.RoundMS(took).Milliseconds()),
	}
	if err != nil {
		outcome = "absent"
		level = slog.LevelWarn
		if ctx.Err() != nil {
			outcome = "cancelled"
			level = slog.LevelInfo
		}
		var se *statusError
		if errors.As(err, &se) {
			base = append(base, slog.Int("http_code", se.code))
		}
		base = append(base, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	base = append(base, slog.String("status", outcome))
	logger.LogEvent(ctx, logger.Component("backend"), level, "backend.call", append(base, attrs...)...)
	if g.onCall != nil {
		g.onCall(op, outcome, took)
	}
}

// ResolveUser creates or looks up the backend user for a chat.
func (g *Gateway) ResolveUser(ctx context.Context, chatID int64) (string, bool) {
	start := time.Now()
	body, err := json.Marshal(struct {
		ChatID int64 `json:"chatId"`
	}{ChatID: chatID})
	if err == nil {
		body, err = g.call(ctx, http.MethodPost, g.endpoint(nil, "user", "save"), body)
	}
	var id string
	if err == nil {
		var out struct {
			ID string `json:"id"`
		}
		if jerr := json.Unmarshal(body, &out); jerr != nil {
			err = fmt.Errorf("%w: %v", errMalformed, jerr)
		} else if _, perr := uuid.Parse(strings.TrimSpace(out.ID)); perr != nil {
			err = fmt.Errorf("%w: id %q is not a uuid", errMalformed, logger.SanitizeLimit(out.ID, 64))
		} else {
			id = strings.TrimSpace(out.ID)
		}
	}
	g.report(ctx, opResolve, start, err)
	return id, err == nil
}

// Random fetches a random catalog item.
func (g *Gateway) Random(ctx context.Context) (movie.Item, bool) {
	return g.fetchItem(ctx, opRandom, g.endpoint(nil, "movie", "random"))
}

// Item fetches a single item for the user.
func (g *Gateway) Item(ctx context.Context, userID string, itemID int64) (movie.Item, bool) {
	return g.fetchItem(ctx, opItem, g.endpoint(nil, "movies", userID, strconv.FormatInt(itemID, 10)),
		slog.Int64("item_id", itemID))
}

func (g *Gateway) fetchItem(ctx context.Context, op, target string, attrs ...slog.Attr) (movie.Item, bool) {
	start := time.Now()
	body, err := g.call(ctx, http.MethodGet, target, nil)
	var it movie.Item
	if err == nil {
		it, err = movie.Decode(body)
	}
	g.report(ctx, op, start, err, attrs...)
	return it, err == nil
}

// Search runs a catalog search. Results keep backend order; malformed entries
// are dropped. The response may be {"results":[...]} or a bare array.
func (g *Gateway) Search(ctx context.Context, userID, query string) ([]movie.Item, bool) {
	start := time.Now()
	body, err := g.call(ctx, http.MethodGet, g.endpoint(url.Values{"query": {query}}, "search", userID), nil)
	var items []movie.Item
	dropped := 0
	if err == nil {
		var entries []json.RawMessage
		entries, err = searchEntries(body)
		for _, raw := range entries {
			it, derr := movie.Decode(raw)
			if derr != nil {
				dropped++
				logger.Warn(ctx, "backend", "backend.item_dropped",
					slog.String("op", opSearch),
					slog.String("err", logger.SanitizeLimit(derr.Error(), 256)),
				)
				continue
			}
			items = append(items, it)
		}
	}
	g.report(ctx, opSearch, start, err,
		slog.Int("query_len", len([]rune(query))),
		slog.Int("results", len(items)),
		slog.Int("dropped", dropped),
	)
	if err != nil {
		return nil, false
	}
	return items, true
}

func searchEntries(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformed, err)
		}
		return list, nil
	}
	var env struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: missing results", errMalformed)
	}
	return *env.Results, nil
}

// Save posts the raw item payload to the user's saved list.
func (g *Gateway) Save(ctx context.Context, userID string, raw json.RawMessage) bool {
	start := time.Now()
	var err error
	if len(raw) == 0 {
		err = fmt.Errorf("%w: empty payload", errMalformed)
	} else {
		_, err = g.call(ctx, http.MethodPost, g.endpoint(nil, "movie", userID, "save"), raw)
	}
	g.report(ctx, opSave, start, err, slog.Int("bytes", len(raw)))
	return err == nil
}
