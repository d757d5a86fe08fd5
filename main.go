package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/soocke/pixel-fisher-go/app"
	"github.com/soocke/pixel-fisher-go/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.json", "path to a JSON or YAML config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime stat loggers")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if *debugFlag {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	logger := NewLogger(parseLevel(cfg.LogLevel))
	if err != nil {
		logger.Error("load config", "path", *configPath, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.BuildContainer(cfg, logger)
	if err != nil {
		logger.Error("build container", "error", err)
		return 1
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("close", "error", err)
		}
	}()

	if err := app.New(c).Run(ctx); err != nil {
		logger.Error("fishing failed", "error", err)
		return 1
	}
	logger.Info("shutdown complete", "reason", context.Cause(ctx))
	return 0
}
