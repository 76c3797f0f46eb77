package heartbeat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/koronatech/entryhub/internal/devices"
)

var (
	ErrEntrypointMismatch = errors.New("entrypoint mismatch")
)

// Report is an incoming heartbeat after JSON decoding. The agent may
// send its own timestamp; it is accepted but never persisted — the
// registry records its own receipt time.
type Report struct {
	Entrypoint string
	Hostname   *string
	Timestamp  *time.Time
	UptimeS    *int64
	Load1      *float64
	MemFreeMB  *int64
	AgentVer   *string
}

// Ack acknowledges a processed heartbeat with the server receipt time.
type Ack struct {
	ReceivedAt time.Time
}

// Processor applies authenticated heartbeats to the device registry.
type Processor struct {
	store devices.Store
	now   func() time.Time
}

func NewProcessor(store devices.Store) *Processor {
	return &Processor{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Process validates the report against the authenticated device and
// applies it. The telemetry snapshot is fully overwritten: a field the
// agent omitted resets to null, except hostname, which keeps its
// previous value. The stored IP always tracks sourceIP, the address
// the request actually came from, not anything the agent claims.
func (p *Processor) Process(ctx context.Context, report Report, device *devices.Device, sourceIP string) (Ack, error) {
	if report.Entrypoint != device.Entrypoint {
		return Ack{}, fmt.Errorf("%w: report for %q, token owned by %q",
			ErrEntrypointMismatch, report.Entrypoint, device.Entrypoint)
	}

	now := p.now()

	device.LastSeen = &now
	if report.Hostname != nil && *report.Hostname != "" {
		device.Hostname = report.Hostname
	}
	device.UptimeS = report.UptimeS
	device.Load1 = report.Load1
	device.MemFreeMB = report.MemFreeMB
	device.AgentVer = report.AgentVer
	if sourceIP != "" {
		device.IP = &sourceIP
	}

	if err := p.store.Save(ctx, device); err != nil {
		return Ack{}, fmt.Errorf("persist heartbeat for %s: %w", device.Entrypoint, err)
	}

	slog.Debug("Heartbeat applied",
		"entrypoint", device.Entrypoint,
		"source_ip", sourceIP,
		"received_at", now)

	return Ack{ReceivedAt: now}, nil
}
