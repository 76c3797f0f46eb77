package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koronatech/entryhub/internal/api/http/dto"
	"github.com/koronatech/entryhub/internal/api/http/middleware"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seedDeviceStore(t *testing.T, seed ...devices.Device) *devices.MemStore {
	t.Helper()
	store := devices.NewMemStore()
	_, err := store.SeedRoster(context.Background(), seed)
	require.NoError(t, err)
	return store
}

func setupHeartbeatRouter(store devices.Store) *gin.Engine {
	r := gin.New()
	h := NewHeartbeatHandler(heartbeat.NewProcessor(store))
	r.POST("/api/v1/heartbeat", middleware.DeviceAuth(store), h.Post)
	d := NewDevicesHandler(store, heartbeat.DefaultGrace)
	r.GET("/api/v1/devices", d.List)
	return r
}

func postHeartbeat(r *gin.Engine, token string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/api/v1/heartbeat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "10.0.0.42:51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHeartbeatMissingToken(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	w := postHeartbeat(r, "", dto.HeartbeatRequest{Entrypoint: "gate-1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHeartbeatUnknownToken(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	w := postHeartbeat(r, "nope", dto.HeartbeatRequest{Entrypoint: "gate-1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHeartbeatMalformedHeader(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	body, _ := json.Marshal(dto.HeartbeatRequest{Entrypoint: "gate-1"})
	req, _ := http.NewRequest("POST", "/api/v1/heartbeat", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHeartbeatEntrypointMismatch(t *testing.T) {
	store := seedDeviceStore(t,
		devices.Device{Entrypoint: "gate-1", Token: "abc"},
		devices.Device{Entrypoint: "gate-2", Token: "def"})
	r := setupHeartbeatRouter(store)

	w := postHeartbeat(r, "abc", dto.HeartbeatRequest{Entrypoint: "gate-2"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := store.Get(context.Background(), "gate-1")
	require.NoError(t, err)
	assert.Nil(t, stored.LastSeen)
}

func TestHeartbeatMissingEntrypoint(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	w := postHeartbeat(r, "abc", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeartbeatOK(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	hostname := "box-1"
	uptime := int64(3600)
	w := postHeartbeat(r, "abc", dto.HeartbeatRequest{
		Entrypoint: "gate-1",
		Hostname:   &hostname,
		UptimeS:    &uptime,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.HeartbeatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	now, err := time.Parse(time.RFC3339, resp.Now)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), now, 5*time.Second)

	stored, err := store.Get(context.Background(), "gate-1")
	require.NoError(t, err)
	require.NotNil(t, stored.IP)
	assert.Equal(t, "10.0.0.42", *stored.IP, "stored IP is the observed source address")
	require.NotNil(t, stored.Hostname)
	assert.Equal(t, "box-1", *stored.Hostname)
}

func TestHeartbeatIgnoresForwardedForHeader(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "abc"})
	r := setupHeartbeatRouter(store)

	body, _ := json.Marshal(dto.HeartbeatRequest{Entrypoint: "gate-1"})
	req, _ := http.NewRequest("POST", "/api/v1/heartbeat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("X-Forwarded-For", "203.0.113.99")
	req.RemoteAddr = "10.0.0.42:51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := store.Get(context.Background(), "gate-1")
	require.NoError(t, err)
	require.NotNil(t, stored.IP)
	assert.Equal(t, "10.0.0.42", *stored.IP,
		"the agent cannot dictate its stored address via proxy headers")
}

func TestHeartbeatThenDeviceListShowsOnline(t *testing.T) {
	store := seedDeviceStore(t,
		devices.Device{Entrypoint: "gate-1", Token: "abc"},
		devices.Device{Entrypoint: "gate-2", Token: "def"})
	r := setupHeartbeatRouter(store)

	w := postHeartbeat(r, "abc", dto.HeartbeatRequest{Entrypoint: "gate-1"})
	require.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/api/v1/devices", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var views []dto.DeviceView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)

	assert.Equal(t, "gate-1", views[0].Entrypoint)
	assert.True(t, views[0].Online)
	assert.Equal(t, "gate-2", views[1].Entrypoint)
	assert.False(t, views[1].Online, "a device that never reported is offline")
}

func TestDeviceListNeverExposesToken(t *testing.T) {
	store := seedDeviceStore(t, devices.Device{Entrypoint: "gate-1", Token: "super-secret"})
	r := setupHeartbeatRouter(store)

	req, _ := http.NewRequest("GET", "/api/v1/devices", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret")
}
