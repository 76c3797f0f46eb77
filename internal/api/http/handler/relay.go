package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koronatech/entryhub/internal/api/http/dto"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/relay"
	"github.com/koronatech/entryhub/internal/scanlog"
)

const (
	defaultScanLines = 200
	maxScanLines     = 2000
)

var powerActions = map[string]bool{
	"shutdown":        true,
	"reboot":          true,
	"restart_service": true,
	"stop_service":    true,
}

type RelayHandler struct {
	store      devices.Store
	client     *relay.Client
	scannerLog string
}

func NewRelayHandler(store devices.Store, client *relay.Client, scannerLog string) *RelayHandler {
	return &RelayHandler{
		store:      store,
		client:     client,
		scannerLog: scannerLog,
	}
}

// Exec relays an arbitrary administrative function in tolerant mode:
// whatever the device answers comes back, success or not.
// POST /api/v1/devices/:entrypoint/exec?action=<name>
func (h *RelayHandler) Exec(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	device, ok := h.resolve(c)
	if !ok {
		return
	}

	_ = c.Request.ParseForm()
	params := url.Values(c.Request.PostForm)

	result, err := h.client.Call(c.Request.Context(), *device.IP, action, params)
	if err != nil {
		h.writeRelayError(c, device.Entrypoint, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExecResponse{
		Action:     action,
		Returncode: result.Returncode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
	})
}

// LastScan fetches the tail of the device's scanner log in strict mode
// and classifies the most recent completed scan cycle.
// GET /api/v1/devices/:entrypoint/last-scan?lines=200
func (h *RelayHandler) LastScan(c *gin.Context) {
	lines := defaultScanLines
	if raw := c.Query("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be a positive integer"})
			return
		}
		lines = parsed
		if lines > maxScanLines {
			lines = maxScanLines
		}
	}

	device, ok := h.resolve(c)
	if !ok {
		return
	}

	cmd := fmt.Sprintf("tail -n %d %s", lines, h.scannerLog)
	result, err := h.client.CallStrict(c.Request.Context(), *device.IP, "diag",
		url.Values{"cmd": {cmd}})
	if err != nil {
		h.writeRelayError(c, device.Entrypoint, err)
		return
	}

	block, found := scanlog.ExtractLastScan(strings.Split(result.Stdout, "\n"))
	if !found {
		c.JSON(http.StatusOK, dto.LastScanResponse{Found: false})
		return
	}

	scan := scanlog.Classify(block)
	c.JSON(http.StatusOK, dto.LastScanResponse{
		Found:   true,
		Barcode: scan.Barcode,
		Result:  scan.Result,
		Details: scan.Details,
		Lines:   scan.Lines,
	})
}

// Diag relays a diagnostic command in strict mode and forwards the
// device's JSON answer verbatim.
// POST /api/v1/devices/:entrypoint/diag (form field cmd)
func (h *RelayHandler) Diag(c *gin.Context) {
	cmd := c.PostForm("cmd")
	if cmd == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cmd is required"})
		return
	}

	device, ok := h.resolve(c)
	if !ok {
		return
	}

	result, err := h.client.CallStrict(c.Request.Context(), *device.IP, "diag",
		url.Values{"cmd": {cmd}})
	if err != nil {
		h.writeRelayError(c, device.Entrypoint, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result.Raw)
}

// Power relays one of the fixed power and service control functions.
// POST /api/v1/devices/:entrypoint/power
func (h *RelayHandler) Power(c *gin.Context) {
	var req dto.PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !powerActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown power action"})
		return
	}

	device, ok := h.resolve(c)
	if !ok {
		return
	}

	result, err := h.client.Call(c.Request.Context(), *device.IP, req.Action, nil)
	if err != nil {
		h.writeRelayError(c, device.Entrypoint, err)
		return
	}

	slog.Info("Power action relayed", "entrypoint", device.Entrypoint, "action", req.Action)
	c.JSON(http.StatusOK, dto.ExecResponse{
		Action:     req.Action,
		Returncode: result.Returncode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
	})
}

// resolve looks up the target device and enforces that it has a known
// address before any outbound call is attempted.
func (h *RelayHandler) resolve(c *gin.Context) (*devices.Device, bool) {
	entrypoint := c.Param("entrypoint")

	device, err := h.store.Get(c.Request.Context(), entrypoint)
	if err != nil {
		if errors.Is(err, devices.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return nil, false
		}
		slog.Error("Failed to resolve device", "error", err, "entrypoint", entrypoint)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve device"})
		return nil, false
	}

	if device.IP == nil || *device.IP == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "device has no known address"})
		return nil, false
	}

	return device, true
}

func (h *RelayHandler) writeRelayError(c *gin.Context, entrypoint string, err error) {
	switch {
	case errors.Is(err, relay.ErrNoAddress):
		c.JSON(http.StatusNotFound, gin.H{"error": "device has no known address"})
	case errors.Is(err, relay.ErrUpstreamProtocol):
		slog.Warn("Relay protocol error", "entrypoint", entrypoint, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		slog.Warn("Relay failed", "entrypoint", entrypoint, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
