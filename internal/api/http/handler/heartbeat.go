package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koronatech/entryhub/internal/api/http/dto"
	"github.com/koronatech/entryhub/internal/api/http/middleware"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
)

type HeartbeatHandler struct {
	processor *heartbeat.Processor
}

func NewHeartbeatHandler(processor *heartbeat.Processor) *HeartbeatHandler {
	return &HeartbeatHandler{
		processor: processor,
	}
}

// Post applies an authenticated heartbeat report.
// POST /api/v1/heartbeat
func (h *HeartbeatHandler) Post(c *gin.Context) {
	device := c.MustGet(middleware.DeviceContextKey).(*devices.Device)

	var req dto.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := heartbeat.Report{
		Entrypoint: req.Entrypoint,
		Hostname:   req.Hostname,
		Timestamp:  req.Ts,
		UptimeS:    req.UptimeS,
		Load1:      req.Load1,
		MemFreeMB:  req.MemFreeMB,
	}
	if req.Agent != nil && req.Agent.Ver != "" {
		report.AgentVer = &req.Agent.Ver
	}

	// RemoteIP, not ClientIP: the stored address must be the peer the
	// request actually came from, never a forwarded-for claim.
	ack, err := h.processor.Process(c.Request.Context(), report, device, c.RemoteIP())
	if err != nil {
		if errors.Is(err, heartbeat.ErrEntrypointMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "entrypoint mismatch"})
			return
		}
		slog.Error("Failed to apply heartbeat", "error", err, "entrypoint", device.Entrypoint)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply heartbeat"})
		return
	}

	c.JSON(http.StatusOK, dto.HeartbeatResponse{
		Status: "ok",
		Now:    ack.ReceivedAt.UTC().Format(time.RFC3339),
	})
}
