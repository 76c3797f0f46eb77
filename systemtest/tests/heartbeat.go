package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koronatech/entryhub/internal/api/http/dto"
)

// TestHeartbeatFlow walks one device through the report cycle: the
// operator sees it offline, the device reports, the operator sees it
// online with the reported telemetry.
func TestHeartbeatFlow(t *testing.T, router *gin.Engine, operatorToken string) {
	t.Run("roster starts offline", func(t *testing.T) {
		views := listDevices(t, router, operatorToken)
		require.Len(t, views, 2)
		assert.Equal(t, "gate-1", views[0].Entrypoint)
		assert.False(t, views[0].Online)
		assert.False(t, views[1].Online)
	})

	t.Run("heartbeat flips device online", func(t *testing.T) {
		hostname := "box-1"
		uptime := int64(7200)
		rr := doJSON(router, "POST", "/api/v1/heartbeat", "abc", dto.HeartbeatRequest{
			Entrypoint: "gate-1",
			Hostname:   &hostname,
			UptimeS:    &uptime,
		})
		require.Equal(t, http.StatusOK, rr.Code)

		views := listDevices(t, router, operatorToken)
		require.Len(t, views, 2)
		assert.True(t, views[0].Online)
		require.NotNil(t, views[0].Hostname)
		assert.Equal(t, "box-1", *views[0].Hostname)
		require.NotNil(t, views[0].UptimeS)
		assert.Equal(t, int64(7200), *views[0].UptimeS)
		assert.False(t, views[1].Online, "gate-2 never reported")
	})

	t.Run("device token never leaks", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/devices", nil)
		req.Header.Set("Authorization", "Bearer "+operatorToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "abc")
		assert.NotContains(t, rr.Body.String(), "def")
	})

	t.Run("device list requires operator auth", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/devices", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong device token rejected", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/v1/heartbeat", "nope",
			dto.HeartbeatRequest{Entrypoint: "gate-1"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// TestOperatorLogin checks the login round trip and returns a token
// for the remaining scenarios.
func TestOperatorLogin(t *testing.T, router *gin.Engine, username, password string) string {
	rr := doJSON(router, "POST", "/api/v1/auth/login", "",
		dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	rr = doJSON(router, "POST", "/api/v1/auth/login", "",
		dto.LoginRequest{Username: username, Password: "not-the-password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	return resp.Token
}

func listDevices(t *testing.T, router *gin.Engine, token string) []dto.DeviceView {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/devices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var views []dto.DeviceView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	return views
}

func doJSON(router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
