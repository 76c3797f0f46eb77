package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/koronatech/entryhub/internal/agent"
)

var (
	server     = flag.String("server", "http://localhost:8080", "registry base URL")
	entrypoint = flag.String("entrypoint", "gate-1", "entrypoint name to report as")
	token      = flag.String("token", "", "device bearer token")
	beats      = flag.Int("beats", 3, "number of heartbeats to send")
	delay      = flag.Duration("delay", 2*time.Second, "delay between heartbeats")
)

// Manual probe against a running registry. Sends a few real
// heartbeats, telemetry included, and logs the outcome of each.
func main() {
	flag.Parse()

	if *token == "" {
		log.Fatal("a device token is required (-token)")
	}

	runner := agent.New(agent.Config{
		ServerURL:  *server,
		Entrypoint: *entrypoint,
		Token:      *token,
		Interval:   *delay,
		Version:    "probe",
	})

	log.Printf("Probing %s as entrypoint=%s", *server, *entrypoint)

	for i := 1; i <= *beats; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := runner.SendHeartbeat(ctx)
		cancel()

		if err != nil {
			log.Printf("heartbeat %d/%d failed: %v", i, *beats, err)
		} else {
			log.Printf("heartbeat %d/%d acknowledged", i, *beats)
		}

		if i < *beats {
			time.Sleep(*delay)
		}
	}
}
