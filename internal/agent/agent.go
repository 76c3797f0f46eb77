// Package agent implements the heartbeat loop that runs on each
// entrypoint device.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/koronatech/entryhub/internal/api/http/dto"
)

type Config struct {
	ServerURL  string
	Entrypoint string
	Token      string
	Interval   time.Duration
	Version    string
}

// Runner posts one heartbeat per interval. Failures are logged and
// swallowed; the loop continues at the next tick regardless of
// outcome. One runner, one execution path — no concurrent heartbeats.
type Runner struct {
	config     Config
	endpoint   string
	httpClient *http.Client
	hostname   func() (string, error)
}

func New(config Config) *Runner {
	return &Runner{
		config:   config,
		endpoint: strings.TrimRight(config.ServerURL, "/") + "/api/v1/heartbeat",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		hostname: os.Hostname,
	}
}

// Run sends heartbeats until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("Heartbeat loop started",
		"endpoint", r.endpoint,
		"entrypoint", r.config.Entrypoint,
		"interval", r.config.Interval)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		if err := r.SendHeartbeat(ctx); err != nil {
			slog.Warn("Heartbeat failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("Heartbeat loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// SendHeartbeat posts a single heartbeat with the current host
// telemetry.
func (r *Runner) SendHeartbeat(ctx context.Context) error {
	now := time.Now().UTC()
	telemetry := collectTelemetry(ctx)

	payload := dto.HeartbeatRequest{
		Entrypoint: r.config.Entrypoint,
		Ts:         &now,
		UptimeS:    telemetry.UptimeS,
		Load1:      telemetry.Load1,
		MemFreeMB:  telemetry.MemFreeMB,
		Agent:      &dto.AgentDescriptor{Ver: r.config.Version},
	}
	if name, err := r.hostname(); err == nil {
		payload.Hostname = &name
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode heartbeat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build heartbeat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send heartbeat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("heartbeat rejected: status %d: %s", resp.StatusCode, msg)
	}

	slog.Debug("Heartbeat sent", "entrypoint", r.config.Entrypoint)
	return nil
}
