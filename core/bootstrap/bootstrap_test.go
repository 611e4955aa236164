package bootstrap

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/moviebot/core/config"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunBuildsServices(t *testing.T) {
	res, err := Run(context.Background(), Options[string]{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Services: func(context.Context, *coreconfig.Config) (string, error) {
			return "ready", nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Services != "ready" {
		t.Fatalf("services = %q", res.Services)
	}
}

func TestRunPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return boom },
		Services:   func(context.Context, *coreconfig.Config) (int, error) { return 1, nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want logger failure", err)
	}

	_, err = Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Services:   func(context.Context, *coreconfig.Config) (int, error) { return 0, boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want service failure", err)
	}

	if _, err := Run[int](context.Background(), Options[int]{LoggerInit: noLogger}); err == nil {
		t.Fatal("nil config accepted")
	}
}
