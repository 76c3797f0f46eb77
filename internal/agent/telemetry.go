package agent

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Telemetry is the host snapshot shipped with each heartbeat. Fields
// stay nil when a collector fails; the server treats nil as "not
// reported" and resets the stored value.
type Telemetry struct {
	UptimeS   *int64
	Load1     *float64
	MemFreeMB *int64
}

func collectTelemetry(ctx context.Context) Telemetry {
	var t Telemetry

	if uptime, err := host.UptimeWithContext(ctx); err != nil {
		slog.Debug("Uptime collection failed", "error", err)
	} else {
		v := int64(uptime)
		t.UptimeS = &v
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		slog.Debug("Load collection failed", "error", err)
	} else {
		v := avg.Load1
		t.Load1 = &v
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		slog.Debug("Memory collection failed", "error", err)
	} else {
		v := int64(vm.Available / (1024 * 1024))
		t.MemFreeMB = &v
	}

	return t
}
