package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/koronatech/entryhub/internal/agent"
)

var AppVersion = "0.1.0"

func main() {
	InitConfig()

	slog.Info("EntryHub Agent", "version", AppVersion)

	if strings.HasPrefix(config.Agent.Entrypoint, "CHANGE_ME") ||
		strings.HasPrefix(config.Agent.Token, "CHANGE_ME") {
		slog.Warn("Agent is running with placeholder identity; heartbeats will be rejected",
			"entrypoint", config.Agent.Entrypoint)
	}

	runner := agent.New(agent.Config{
		ServerURL:  config.Server.Url,
		Entrypoint: config.Agent.Entrypoint,
		Token:      config.Agent.Token,
		Interval:   time.Duration(config.Agent.IntervalS) * time.Second,
		Version:    AppVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner.Run(ctx)
}
