package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/moviebot/core/config"
)

func TestOptionsFromDefaults(t *testing.T) {
	opts := optionsFrom(nil)
	if opts.level != slog.LevelInfo || opts.format != formatJSON || opts.profile != "prod" {
		t.Fatalf("defaults = %+v", opts)
	}
	if opts.sampleN != 1 || opts.sampleD != 50 || opts.file != "" {
		t.Fatalf("defaults = %+v", opts)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Level:       "Warning",
		Profile:     "Dev",
		KeysOrder:   " ts, event ,,level",
		DebugSample: "off",
		Dir:         "/var/log/moviebot",
		BotFile:     "bot.log",
	}}
	opts := optionsFrom(cfg)
	if opts.level != slog.LevelWarn {
		t.Fatalf("level = %v", opts.level)
	}
	if opts.format != formatKV {
		t.Fatal("dev profile must default to kv")
	}
	if len(opts.keyOrder) != 3 || opts.keyOrder[1] != "event" {
		t.Fatalf("key order = %v", opts.keyOrder)
	}
	if opts.sampleN != 0 || opts.sampleD != 0 {
		t.Fatal("unparseable sample spec must disable sampling")
	}
	if opts.file != filepath.Join("/var/log/moviebot", "bot.log") {
		t.Fatalf("file = %q", opts.file)
	}

	cfg.Logging.Format = "json"
	if optionsFrom(cfg).format != formatJSON {
		t.Fatal("explicit format must win over profile")
	}
}
