// Package dispatch routes chat updates to the movie bot handlers.
//
// Classification order for an update: button callback, known command, free
// text while a search is pending, otherwise ignored. Identity is resolved
// through the identity cache and, on a miss, the backend.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m3rciful/moviebot/app/cache"
	"github.com/m3rciful/moviebot/app/movie"
	"github.com/m3rciful/moviebot/app/render"
	"github.com/m3rciful/moviebot/app/session"
	"github.com/m3rciful/moviebot/core/logger"
	tg "github.com/m3rciful/moviebot/core/telegram"
)

// Command words understood by the dispatcher.
const (
	CmdStart  = "/start"
	CmdRandom = "/random"
	CmdSearch = "/search"
	CmdHelp   = "/help"
)

// Routes reported in decisions.
const (
	RouteStart      = "start"
	RouteRandom     = "random"
	RouteSearch     = "search"
	RouteHelp       = "help"
	RouteSearchText = "search_text"
	RouteDetails    = "details"
	RouteSave       = "save"
	RouteCallback   = "callback"
	RouteIgnored    = "ignored"
)

// Backend is the catalog service as used by the dispatcher. Every method
// reports false instead of an error.
type Backend interface {
	ResolveUser(ctx context.Context, chatID int64) (string, bool)
	Random(ctx context.Context) (movie.Item, bool)
	Item(ctx context.Context, userID string, itemID int64) (movie.Item, bool)
	Search(ctx context.Context, userID, query string) ([]movie.Item, bool)
	Save(ctx context.Context, userID string, raw json.RawMessage) bool
}

// Deps are the collaborators of a Dispatcher. All stores are shared.
type Deps struct {
	Identities *cache.Identities
	Items      *cache.Items
	Sessions   *session.Sessions
	Backend    Backend
	Responder  *render.Responder
	Observer   Observer
	// Menu replaces the default /help text.
	Menu string
}

// Dispatcher implements the update state machine.
type Dispatcher struct {
	identities *cache.Identities
	items      *cache.Items
	sessions   *session.Sessions
	backend    Backend
	responder  *render.Responder
	observer   Observer
	menu       string
	now        func() time.Time
}

// New validates deps and builds a Dispatcher.
func New(deps Deps) (*Dispatcher, error) {
	switch {
	case deps.Identities == nil:
		return nil, errors.New("dispatch: nil identity cache")
	case deps.Items == nil:
		return nil, errors.New("dispatch: nil item cache")
	case deps.Sessions == nil:
		return nil, errors.New("dispatch: nil sessions")
	case deps.Backend == nil:
		return nil, errors.New("dispatch: nil backend")
	case deps.Responder == nil:
		return nil, errors.New("dispatch: nil responder")
	}
	obs := deps.Observer
	if obs == nil {
		obs = LogObserver{}
	}
	menu := deps.Menu
	if menu == "" {
		menu = msgDefaultMenu
	}
	return &Dispatcher{
		identities: deps.Identities,
		items:      deps.Items,
		sessions:   deps.Sessions,
		backend:    deps.Backend,
		responder:  deps.Responder,
		observer:   obs,
		menu:       menu,
		now:        time.Now,
	}, nil
}

// result is what a handler reports back for the decision record.
type result struct {
	route   string
	outcome string
	reason  string
}

func ok(route string) result { return result{route: route, outcome: OutcomeOK} }

func failed(route, reason string) result {
	return result{route: route, outcome: OutcomeFail, reason: reason}
}

// abandoned marks an update dropped because ctx was cancelled.
func abandoned(route string) result {
	return result{route: route, outcome: OutcomeCancelled, reason: reasonCancelled}
}

// HandleUpdate processes one update. Errors are transport failures while
// replying; domain failures are answered in the chat and return nil.
func (d *Dispatcher) HandleUpdate(ctx context.Context, out tg.Outbound, u tg.Update) error {
	start := d.now()
	counted := &countingOutbound{Outbound: out}

	var (
		res result
		err error
	)
	switch u.Kind {
	case tg.KindCallback:
		res, err = d.handleCallback(ctx, counted, u)
	case tg.KindMessage:
		res, err = d.handleMessage(ctx, counted, u)
	default:
		res = result{route: RouteIgnored, outcome: OutcomeSkip, reason: "unsupported"}
	}
	if err != nil && res.outcome != OutcomeCancelled {
		if ctx.Err() != nil {
			res = abandoned(res.route)
		} else {
			res.outcome = OutcomeError
		}
	}

	d.observer.Observe(logger.WithHandler(ctx, res.route), Decision{
		Kind:     u.Kind.String(),
		Route:    res.route,
		Outcome:  res.outcome,
		Reason:   res.reason,
		ChatID:   u.ChatID,
		Messages: int(counted.sent.Load()),
		Duration: d.now().Sub(start),
	})
	if res.outcome == OutcomeCancelled {
		return nil
	}
	return err
}

func (d *Dispatcher) handleMessage(ctx context.Context, out tg.Outbound, u tg.Update) (result, error) {
	if cmd, isCmd := u.Command(); isCmd {
		switch cmd {
		case CmdStart:
			return d.handleStart(ctx, out, u.ChatID)
		case CmdRandom:
			return d.handleRandom(ctx, out, u.ChatID)
		case CmdSearch:
			return d.handleSearchCommand(ctx, out, u.ChatID)
		case CmdHelp:
			return ok(RouteHelp), out.SendText(ctx, u.ChatID, d.menu, nil)
		}
		// Unknown commands are ignored and keep a pending search intact.
		return result{route: RouteIgnored, outcome: OutcomeSkip, reason: "unknown_command"}, nil
	}

	if !d.sessions.ConsumeAwaitingSearch(u.ChatID) {
		return result{route: RouteIgnored, outcome: OutcomeSkip, reason: "not_awaiting"}, nil
	}
	return d.handleSearchText(ctx, out, u.ChatID, u.Text)
}
