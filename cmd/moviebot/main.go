// Command moviebot runs the Telegram movie bot.
package main

import (
	"context"
	"fmt"
	"log"

	appconfig "github.com/m3rciful/moviebot/app/config"
	"github.com/m3rciful/moviebot/app/wiring"
	"github.com/m3rciful/moviebot/core/bootstrap"
	"github.com/m3rciful/moviebot/core/cmd"
	coreconfig "github.com/m3rciful/moviebot/core/config"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        loadConfig,
		Bootstrap:         bootstrapApp,
	})
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (cmd.ConfigCarrier, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func bootstrapApp(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*appconfig.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(ctx, bootstrap.Options[*wiring.App]{
		Config: cfg.CoreConfig(),
		Services: func(ctx context.Context, _ *coreconfig.Config) (*wiring.App, error) {
			return wiring.New(ctx, cfg)
		},
	})
	if err != nil {
		return nil, err
	}
	return res.Services, nil
}
