// Command oxy-gpu opens a window and renders the configured shader and model until the window is
// closed.
//
// Settings come from oxy.toml (or the file named by OXY_CONFIG), then .env, then OXY_* environment
// variables. The process exits 0 when the window closes or an interrupt arrives, 1 on any error.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-gpu/engine"
	"github.com/Carmen-Shannon/oxy-gpu/engine/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(sources())
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		return 1
	}
	log.SetLevel(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithProfiling(cfg.LogLevel() >= log.DebugLevel),
	)
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Engine stopped")
		return 1
	}
	return 0
}

// sources includes only the files that exist, except an explicitly named config file, which
// must.
func sources() config.Sources {
	var src config.Sources
	if path, err := envy.MustGet("OXY_CONFIG"); err == nil {
		src.File = path
	} else if exists("oxy.toml") {
		src.File = "oxy.toml"
	}
	if exists(".env") {
		src.DotEnv = ".env"
	}
	return src
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
