// Package wiring assembles the movie bot from configuration.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/moviebot/app/backend"
	"github.com/m3rciful/moviebot/app/cache"
	appconfig "github.com/m3rciful/moviebot/app/config"
	"github.com/m3rciful/moviebot/app/dispatch"
	"github.com/m3rciful/moviebot/app/metrics"
	"github.com/m3rciful/moviebot/app/render"
	"github.com/m3rciful/moviebot/app/session"
	"github.com/m3rciful/moviebot/core/buildinfo"
	"github.com/m3rciful/moviebot/core/logger"
	coretelegram "github.com/m3rciful/moviebot/core/telegram"
	"github.com/m3rciful/moviebot/core/telegram/commands"
	tghelpers "github.com/m3rciful/moviebot/core/telegram/helpers"
	tgrouter "github.com/m3rciful/moviebot/core/telegram/router"
	tgsender "github.com/m3rciful/moviebot/core/telegram/sender"
	"github.com/m3rciful/moviebot/core/telegram/state"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	tele "gopkg.in/telebot.v4"
)

const (
	cmdStats = "/stats"

	msgSlowDown    = "Too many requests, please slow down."
	msgAdminOnly   = "This command is for the bot admin."
	msgStartupNote = "🟢 Movie bot started: %s"
)

// App holds the long-lived services of one bot process.
type App struct {
	cfg *appconfig.Config

	identities *cache.Identities
	items      *cache.Items
	sessions   *session.Sessions
	gateway    *backend.Gateway
	dispatcher *dispatch.Dispatcher
	sender     *tgsender.Dispatcher
	registry   *coretelegram.Registry

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics
	metricsSrv   *metrics.Server

	startedAt time.Time
}

// New builds every service. Nothing talks to Telegram or the backend yet.
func New(ctx context.Context, cfg *appconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("wiring: nil config")
	}
	a := &App{
		cfg:          cfg,
		identities:   cache.NewIdentities(),
		items:        cache.NewItems(),
		sessions:     session.New(state.NewMemoryManager()),
		promRegistry: prometheus.NewRegistry(),
		startedAt:    time.Now(),
	}

	if err := a.promRegistry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("wiring: go collector: %w", err)
	}
	if err := a.promRegistry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("wiring: process collector: %w", err)
	}
	m, err := metrics.New(a.promRegistry)
	if err != nil {
		return nil, fmt.Errorf("wiring: metrics: %w", err)
	}
	a.metrics = m

	a.gateway, err = backend.New(backend.Options{
		BaseURL: cfg.Backend.APIURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		OnCall:  m.BackendCall,
	})
	if err != nil {
		return nil, err
	}

	a.sender = tgsender.NewDispatcher(tgsender.Options{
		QueueSize:    cfg.Sender.QueueSize,
		Workers:      cfg.Sender.Workers,
		MaxRetries:   cfg.Sender.MaxRetries,
		RetryBackoff: time.Duration(cfg.Sender.RetryBackoffMS) * time.Millisecond,
	})

	if a.registry, err = a.buildRegistry(); err != nil {
		a.sender.Close()
		return nil, err
	}

	a.dispatcher, err = dispatch.New(dispatch.Deps{
		Identities: a.identities,
		Items:      a.items,
		Sessions:   a.sessions,
		Backend:    a.gateway,
		Responder:  render.NewResponder(cfg.Backend.PosterBaseURL),
		Observer:   dispatch.Observers{dispatch.LogObserver{}, m},
		Menu:       MenuText(a.registry),
	})
	if err != nil {
		a.sender.Close()
		return nil, err
	}

	if err := a.registerGauges(); err != nil {
		a.sender.Close()
		return nil, err
	}

	logger.Info(ctx, "app", "wiring.done",
		slog.String("backend", cfg.Backend.APIURL),
		slog.Int("commands", len(a.registry.Commands())),
		slog.Bool("metrics", cfg.Metrics.Listen != ""),
	)
	return a, nil
}

// buildRegistry lists the menu commands. Only /stats has its own route; the
// rest reach the dispatcher through the text route.
func (a *App) buildRegistry() (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()
	err := errors.Join(
		reg.RegisterCommand(dispatch.CmdStart, commands.Command{Description: "Start the bot"}),
		reg.RegisterCommand(dispatch.CmdRandom, commands.Command{Description: "Random movie"}),
		reg.RegisterCommand(dispatch.CmdSearch, commands.Command{Description: "Search movies by title"}),
		reg.RegisterCommand(dispatch.CmdHelp, commands.Command{Description: "Show available commands"}),
		reg.RegisterCommand(cmdStats, commands.Command{
			Handler:     a.handleStats,
			Description: "Runtime statistics",
			AdminOnly:   true,
			Hidden:      true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("wiring: commands: %w", err)
	}
	return reg, nil
}

func (a *App) registerGauges() error {
	gauges := []struct {
		name, help string
		fn         func() float64
	}{
		{"identity_cache_entries", "Chats with a cached backend identity.", func() float64 { return float64(a.identities.Len()) }},
		{"item_cache_entries", "Items cached for saving.", func() float64 { return float64(a.items.Len()) }},
		{"pending_searches", "Chats waiting for a search query.", func() float64 { return float64(a.sessions.Pending()) }},
	}
	for _, g := range gauges {
		if err := a.metrics.Gauge(g.name, g.help, g.fn); err != nil {
			return fmt.Errorf("wiring: gauge %s: %w", g.name, err)
		}
	}
	return a.metrics.CounterFunc("sender_failures_total", "Outbound Telegram calls that failed after retries.",
		func() float64 { return float64(a.sender.ErrorCount()) })
}

// MenuText renders the visible commands, one per line.
func MenuText(reg *coretelegram.Registry) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, c := range reg.ListCommands(true) {
		fmt.Fprintf(&b, "\n/%s - %s", c.Text, c.Description)
	}
	return b.String()
}

// StatsText renders the admin statistics report as HTML.
func (a *App) StatsText() string {
	return fmt.Sprintf("<b>Movie bot</b> %s\n"+
		"Uptime: %s\n"+
		"Identities: %d\n"+
		"Cached items: %d\n"+
		"Pending searches: %d\n"+
		"Send failures: %d",
		buildinfo.String(),
		logger.RoundMS(time.Since(a.startedAt)).Truncate(time.Second),
		a.identities.Len(),
		a.items.Len(),
		a.sessions.Pending(),
		a.sender.ErrorCount(),
	)
}

func (a *App) handleStats(c tele.Context) error {
	return tghelpers.SendHTML(c, a.StatsText())
}

func onRateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgSlowDown})
	}
	return nil
}

func onAdminReject(c tele.Context) error {
	return tghelpers.SendText(c, msgAdminOnly)
}

// TelegramRunOptions implements the runner contract.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	routes := tgrouter.CommandRoutes(a.registry, tgrouter.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: onAdminReject,
	})
	routes = append(routes, tgrouter.UpdateRoutes(a.dispatcher, tgrouter.UpdateOptions{Sender: a.sender})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Dispatcher:  a.sender,
		Middlewares: coretelegram.DefaultMiddlewares(core, onRateLimited),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	if listen := a.cfg.Metrics.Listen; listen != "" {
		a.metricsSrv = metrics.NewServer(listen, a.promRegistry)
		if err := a.metricsSrv.Start(ctx); err != nil {
			return fmt.Errorf("wiring: metrics server: %w", err)
		}
	}
	a.notifyAdmin(ctx, rt)
	return nil
}

// notifyAdmin queues the startup notice. Failures are only logged.
func (a *App) notifyAdmin(ctx context.Context, rt coretelegram.Runtime) {
	admin := a.cfg.Telegram.AdminID
	if admin == 0 || rt.Bot == nil || rt.Dispatcher == nil {
		return
	}
	text := fmt.Sprintf(msgStartupNote, buildinfo.String())
	err := rt.Dispatcher.Enqueue(ctx, "send.text", "sendMessage", func() error {
		_, err := rt.Bot.Send(tele.ChatID(admin), text)
		return err
	})
	if err != nil {
		logger.Warn(ctx, "app", "admin.notify_failed", slog.String("err", err.Error()))
	}
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	if a.metricsSrv == nil {
		return nil
	}
	return a.metricsSrv.Shutdown(ctx)
}
