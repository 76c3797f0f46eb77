package dto

import "time"

type AgentDescriptor struct {
	Ver string `json:"ver"`
}

// HeartbeatRequest mirrors what the entrypoint agent posts. Ts is the
// agent's own clock; it is accepted but the server records its own
// receipt time instead.
type HeartbeatRequest struct {
	Entrypoint string           `json:"entrypoint" binding:"required"`
	Hostname   *string          `json:"hostname"`
	Ts         *time.Time       `json:"ts"`
	UptimeS    *int64           `json:"uptime_s"`
	Load1      *float64         `json:"load1"`
	MemFreeMB  *int64           `json:"mem_free_mb"`
	Agent      *AgentDescriptor `json:"agent"`
}

type HeartbeatResponse struct {
	Status string `json:"status"`
	Now    string `json:"now"`
}
