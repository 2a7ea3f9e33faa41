package main

import (
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// Config is read from the environment at startup.
type Config struct {
	// CatalogPath points at an optional YAML catalog merged over the
	// built-in module definitions.
	CatalogPath  string `env:"HABITAT_CATALOG"`
	LogLevel     string `env:"HABITAT_LOG_LEVEL" envDefault:"info"`
	WindowWidth  int    `env:"HABITAT_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight int    `env:"HABITAT_WINDOW_HEIGHT" envDefault:"800"`
}

func newLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	err = wails.Run(&options.App{
		Title:  "Space Habitat Designer",
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("wails run failed")
	}
}
