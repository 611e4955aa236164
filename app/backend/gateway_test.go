package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const testUserID = "6f1c2a7e-8a3b-4c1d-9e2f-0a1b2c3d4e5f"

type call struct {
	op, outcome string
}

func newGateway(t *testing.T, h http.HandlerFunc) (*Gateway, *[]call) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var mu sync.Mutex
	calls := &[]call{}
	g, err := New(Options{
		BaseURL: srv.URL + "/",
		Client:  srv.Client(),
		OnCall: func(op, outcome string, _ time.Duration) {
			mu.Lock()
			*calls = append(*calls, call{op, outcome})
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, calls
}

func TestResolveUser(t *testing.T) {
	g, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/save" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in struct {
			ChatID int64 `json:"chatId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.ChatID != 100 {
			t.Errorf("chatId = %d", in.ChatID)
		}
		_, _ = io.WriteString(w, `{"id":"`+testUserID+`"}`)
	})
	id, ok := g.ResolveUser(context.Background(), 100)
	if !ok || id != testUserID {
		t.Fatalf("ResolveUser = %q, %v", id, ok)
	}
	if len(*calls) != 1 || (*calls)[0] != (call{opResolve, "ok"}) {
		t.Fatalf("calls = %+v", *calls)
	}
}

func TestResolveUserFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not uuid": func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `{"id":"nope"}`) },
		"bad json": func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `{`) },
		"status": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			g, calls := newGateway(t, h)
			if id, ok := g.ResolveUser(context.Background(), 1); ok || id != "" {
				t.Fatalf("ResolveUser = %q, %v", id, ok)
			}
			if (*calls)[0].outcome != "absent" {
				t.Fatalf("outcome = %q", (*calls)[0].outcome)
			}
		})
	}
}

func TestRandomAndItem(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/random":
			_, _ = io.WriteString(w, `{"id":1,"title":"Heat","vote_average":7.9,"release_date":"1995-12-15"}`)
		case "/movies/" + testUserID + "/27205":
			_, _ = io.WriteString(w, `{"id":27205,"title":"Inception","vote_average":8.4}`)
		case "/movies/" + testUserID + "/1":
			_, _ = io.WriteString(w, `{"id":1,"vote_average":8.4}`)
		default:
			http.NotFound(w, r)
		}
	})

	if it, ok := g.Random(context.Background()); !ok || it.Title != "Heat" {
		t.Fatalf("Random = %+v, %v", it, ok)
	}
	if it, ok := g.Item(context.Background(), testUserID, 27205); !ok || it.ID != 27205 {
		t.Fatalf("Item = %+v, %v", it, ok)
	}
	if _, ok := g.Item(context.Background(), testUserID, 1); ok {
		t.Fatal("item without title must be absent")
	}
	if _, ok := g.Item(context.Background(), testUserID, 404); ok {
		t.Fatal("404 must be absent")
	}
}

func TestItemsWithoutIDAreDropped(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/random" {
			_, _ = io.WriteString(w, `{"title":"Nameless","vote_average":5}`)
			return
		}
		_, _ = io.WriteString(w, `[{"title":"First","vote_average":5},{"id":9,"title":"Kept","vote_average":7},{"title":"Second","vote_average":6}]`)
	})

	items, ok := g.Search(context.Background(), testUserID, "x")
	if !ok {
		t.Fatal("search failed")
	}
	if len(items) != 1 || items[0].ID != 9 || items[0].Title != "Kept" {
		t.Fatalf("items = %+v, want only the entry with an id", items)
	}
	if _, ok := g.Random(context.Background()); ok {
		t.Fatal("random item without id must be absent")
	}
}

func TestSearchEnvelopeAndArray(t *testing.T) {
	var gotQuery string
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Path == "/search/array" {
			_, _ = io.WriteString(w, `[{"id":2,"title":"B","vote_average":1},{"id":1,"title":"A","vote_average":2}]`)
			return
		}
		_, _ = io.WriteString(w, `{"results":[{"id":3,"title":"C","vote_average":3},{"id":4},{"id":5,"title":"E","vote_average":5}]}`)
	})

	items, ok := g.Search(context.Background(), "envelope", "Inception & co")
	if !ok {
		t.Fatal("search failed")
	}
	if gotQuery != "Inception & co" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 5 {
		t.Fatalf("items = %+v, want malformed entry dropped and order kept", items)
	}

	items, ok = g.Search(context.Background(), "array", "x")
	if !ok || len(items) != 2 || items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("array items = %+v, %v", items, ok)
	}
}

func TestSearchEmptyAndMalformed(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/empty":
			_, _ = io.WriteString(w, `{"results":[]}`)
		case "/search/missing":
			_, _ = io.WriteString(w, `{"page":1}`)
		default:
			_, _ = io.WriteString(w, `oops`)
		}
	})
	if items, ok := g.Search(context.Background(), "empty", "q"); !ok || len(items) != 0 {
		t.Fatalf("empty = %+v, %v", items, ok)
	}
	if _, ok := g.Search(context.Background(), "missing", "q"); ok {
		t.Fatal("missing results must be absent")
	}
	if _, ok := g.Search(context.Background(), "garbage", "q"); ok {
		t.Fatal("garbage must be absent")
	}
}

func TestSavePostsExactBytes(t *testing.T) {
	raw := json.RawMessage(`{"id":7, "title":"Se7en","vote_average":8.3,"x":[1,2]}`)
	var got []byte
	status := http.StatusOK
	g, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/movie/U1/save" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
	})

	if !g.Save(context.Background(), "U1", raw) {
		t.Fatal("save failed")
	}
	if string(got) != string(raw) {
		t.Fatalf("body = %s, want %s", got, raw)
	}

	status = http.StatusBadGateway
	if g.Save(context.Background(), "U1", raw) {
		t.Fatal("5xx must fail")
	}
	if g.Save(context.Background(), "U1", nil) {
		t.Fatal("empty payload must fail")
	}
	if len(*calls) != 3 {
		t.Fatalf("calls = %d", len(*calls))
	}
}

func TestCancelledCallReportsCancelled(t *testing.T) {
	g, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"title":"x","vote_average":1}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := g.Random(ctx); ok {
		t.Fatal("cancelled call succeeded")
	}
	if (*calls)[0].outcome != "cancelled" {
		t.Fatalf("outcome = %q", (*calls)[0].outcome)
	}
}

func TestEndpointEscapesSegments(t *testing.T) {
	g, err := New(Options{BaseURL: "http://backend:5180/api"})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.endpoint(nil, "movie", "a/b c", "save"); got != "http://backend:5180/api/movie/a%2Fb%20c/save" {
		t.Fatalf("endpoint = %q", got)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5180", "ftp://x", "http://"} {
		if _, err := New(Options{BaseURL: raw}); err == nil {
			t.Fatalf("New(%q) accepted", raw)
		}
	}
}
