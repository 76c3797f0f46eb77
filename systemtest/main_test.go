package systemtest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/koronatech/entryhub/internal/api/http"
	"github.com/koronatech/entryhub/internal/auth"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
	"github.com/koronatech/entryhub/internal/operators"
	"github.com/koronatech/entryhub/internal/relay"
	"github.com/koronatech/entryhub/systemtest/tests"
)

const rosterJSON = `{
  "devices": [
    {"entrypoint": "gate-1", "token": "abc", "location": "north entrance"},
    {"entrypoint": "gate-2", "token": "def"}
  ]
}`

// TestSystemIntegration boots the full HTTP stack on the in-memory
// stores and runs the operator scenarios end to end, the same wiring
// the server binary does minus Postgres.
func TestSystemIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	rosterPath := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, os.WriteFile(rosterPath, []byte(rosterJSON), 0o600))

	roster, err := devices.LoadRoster(rosterPath)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	store := devices.NewMemStore()
	added, err := store.SeedRoster(ctx, roster)
	require.NoError(t, err)
	require.Equal(t, 2, added)

	// Seeding again is a no-op, as on every server restart.
	added, err = store.SeedRoster(ctx, roster)
	require.NoError(t, err)
	require.Equal(t, 0, added)

	jwtConfig := auth.JWTConfig{Secret: "systemtest-secret", TTL: time.Hour}
	operatorSvc := operators.NewService(operators.NewMemStore(), jwtConfig)
	require.NoError(t, operatorSvc.SeedAdmin(ctx, "admin", "systemtest-pass"))

	engine := gin.New()
	internalhttp.SetupRoute(engine, &internalhttp.Services{
		Devices:    store,
		Processor:  heartbeat.NewProcessor(store),
		Relay:      relay.NewClient(5 * time.Second),
		Operators:  operatorSvc,
		JWTSecret:  jwtConfig.Secret,
		Grace:      heartbeat.DefaultGrace,
		ScannerLog: "/var/log/korona/scanner.log",
	})

	var operatorToken string
	t.Run("OperatorLogin", func(t *testing.T) {
		operatorToken = tests.TestOperatorLogin(t, engine, "admin", "systemtest-pass")
	})
	require.NotEmpty(t, operatorToken)

	t.Run("HeartbeatFlow", func(t *testing.T) {
		tests.TestHeartbeatFlow(t, engine, operatorToken)
	})
}
