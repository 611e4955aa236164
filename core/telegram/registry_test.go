package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/moviebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func TestRegistryListCommandsHidesAdmin(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/search", commands.Command{Description: "Search movies"})
	reg.RegisterCommand("/random", commands.Command{Description: "Random movie"})
	reg.RegisterCommand("/stats", commands.Command{Description: "Runtime stats", AdminOnly: true, Hidden: true,
		Handler: func(tele.Context) error { return nil }})
	if err := reg.RegisterCommand("help", commands.Command{Description: "no slash"}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("no slash: err = %v", err)
	}
	if err := reg.RegisterCommand("/random", commands.Command{Description: "duplicate"}); !errors.Is(err, ErrDuplicateCommand) {
		t.Fatalf("duplicate: err = %v", err)
	}
	if err := reg.RegisterCommand("/empty", commands.Command{}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("no description: err = %v", err)
	}

	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "random" || visible[1].Text != "search" {
		t.Fatalf("visible = %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
	_, cmd, ok := reg.LookupCommand("random")
	if !ok || cmd.Description != "Random movie" || cmd.Routed() {
		t.Fatalf("lookup random = %+v, %v", cmd, ok)
	}
	reg.RegisterCommand("/find", commands.Command{Description: "Find", Aliases: []string{"f"}})
	if key, _, ok := reg.LookupCommand("/f"); !ok || key != "/find" {
		t.Fatalf("alias lookup = %q, %v", key, ok)
	}
}

type fakeSetter struct {
	got []tele.Command
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if len(opts) > 0 {
		f.got, _ = opts[0].([]tele.Command)
	}
	return f.err
}

func TestInitBotCommandsPublishesVisible(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Description: "Start"})
	reg.RegisterCommand("/stats", commands.Command{Description: "Stats", AdminOnly: true})

	s := &fakeSetter{}
	InitBotCommands(s, reg)
	if len(s.got) != 1 || s.got[0].Text != "start" {
		t.Fatalf("published = %+v", s.got)
	}

	InitBotCommands(&fakeSetter{err: errors.New("boom")}, reg)
}
