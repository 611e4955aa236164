package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: from-file
  admin_id: 1
  run_mode: polling
rate_limit:
  interval_ms: 500
  exclude_updates: [" Callback "]
`)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude = %q, want normalized %q", cfg.RateLimit.ExcludeUpdates[0], UpdateCallback)
	}
	if cfg.RateLimit.Burst != 1 {
		t.Fatalf("burst = %d, want default 1", cfg.RateLimit.Burst)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := map[string]Config{
		"missing token": {},
		"bad run mode":  {Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}},
		"webhook without url": {
			Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook},
		},
		"bad exclude": {
			Telegram:  TelegramConfig{Token: "t"},
			RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
		},
		"negative retries": {
			Telegram: TelegramConfig{Token: "t"},
			Sender:   SenderConfig{MaxRetries: -1},
		},
	}
	for name, cfg := range cases {
		cfg := cfg
		if err := Normalize(&cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizeReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Telegram:  TelegramConfig{Token: "t", RunMode: " Webhook "},
		RateLimit: RateLimitConfig{IntervalMS: -1},
	}
	err := Normalize(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"webhook.url", "webhook.listen", "webhook.port", "rate_limit.interval_ms"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
}
