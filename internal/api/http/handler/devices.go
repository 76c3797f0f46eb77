package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koronatech/entryhub/internal/api/http/dto"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
)

type DevicesHandler struct {
	store devices.Store
	grace time.Duration
}

func NewDevicesHandler(store devices.Store, grace time.Duration) *DevicesHandler {
	return &DevicesHandler{
		store: store,
		grace: grace,
	}
}

// List returns all devices with their online state computed against
// the request's clock.
// GET /api/v1/devices
func (h *DevicesHandler) List(c *gin.Context) {
	deviceList, err := h.store.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list devices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list devices"})
		return
	}

	now := time.Now().UTC()
	views := make([]dto.DeviceView, len(deviceList))
	for i, d := range deviceList {
		views[i] = dto.DeviceView{
			Entrypoint: d.Entrypoint,
			Location:   d.Location,
			IP:         d.IP,
			MACAddress: d.MACAddress,
			Hardware:   d.Hardware,
			AccessType: d.AccessType,
			Notes:      d.Notes,
			LastSeen:   d.LastSeen,
			Online:     heartbeat.IsOnline(d.LastSeen, now, h.grace),
			Hostname:   d.Hostname,
			UptimeS:    d.UptimeS,
			Load1:      d.Load1,
			MemFreeMB:  d.MemFreeMB,
			AgentVer:   d.AgentVer,
		}
	}

	c.JSON(http.StatusOK, views)
}
