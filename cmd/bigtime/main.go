package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/bigtime/internal/config"
	"github.com/zeusync/bigtime/internal/core/observability/log"
	"github.com/zeusync/bigtime/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	eng, err := injector.InitializeEngine(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating engine:", err)
		os.Exit(1)
	}
	logger := log.Provide()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = eng.Run(ctx); err != nil {
		logger.Error("engine failed", log.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
