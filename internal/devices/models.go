package devices

import (
	"time"
)

// Device is the canonical record for one physical entrypoint. The
// entrypoint identifier is the primary key and never changes after the
// roster seeds it. Optional fields are pointers so a missing value and
// an empty value stay distinguishable across store round-trips.
type Device struct {
	Entrypoint string
	Token      string

	// Operator-set contact metadata. Heartbeats never touch these,
	// except IP which tracks the observed source address.
	Location   *string
	IP         *string
	MACAddress *string
	Hardware   *string
	AccessType *string
	Notes      *string

	// Set only by a successful authenticated heartbeat, server clock.
	LastSeen *time.Time

	// Telemetry snapshot, fully overwritten by each heartbeat.
	Hostname  *string
	UptimeS   *int64
	Load1     *float64
	MemFreeMB *int64
	AgentVer  *string
}
