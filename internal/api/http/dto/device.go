package dto

import "time"

// DeviceView is the read-only projection of a device record. The
// bearer token is deliberately absent; online is computed fresh on
// every read and never persisted.
type DeviceView struct {
	Entrypoint string     `json:"entrypoint"`
	Location   *string    `json:"location"`
	IP         *string    `json:"ip"`
	MACAddress *string    `json:"mac_address"`
	Hardware   *string    `json:"hardware"`
	AccessType *string    `json:"access_type"`
	Notes      *string    `json:"notes"`
	LastSeen   *time.Time `json:"last_seen"`
	Online     bool       `json:"online"`
	Hostname   *string    `json:"hostname"`
	UptimeS    *int64     `json:"uptime_s"`
	Load1      *float64   `json:"load1"`
	MemFreeMB  *int64     `json:"mem_free_mb"`
	AgentVer   *string    `json:"agent_ver"`
}
