package systemtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koronatech/entryhub/internal/db"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/operators"
	"github.com/koronatech/entryhub/systemtest/postgres"
)

// TestPostgresStores exercises the Postgres-backed stores against a
// real database: migrations, roster seeding, heartbeat persistence
// and operator accounts. Needs a Docker daemon; opt in with
// SYSTEMTEST_POSTGRES=1.
func TestPostgresStores(t *testing.T) {
	if os.Getenv("SYSTEMTEST_POSTGRES") == "" {
		t.Skip("set SYSTEMTEST_POSTGRES=1 to run against a Postgres container")
	}

	ctx := context.Background()
	container, dsn, err := postgres.Start(ctx, "entryhub_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, postgres.Terminate(context.Background(), container))
	})

	require.NoError(t, db.RunMigrations(dsn))

	pool, err := db.InitDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := devices.NewPGStore(pool)

	t.Run("roster seed is insert-only", func(t *testing.T) {
		roster := []devices.Device{
			{Entrypoint: "gate-1", Token: "abc"},
			{Entrypoint: "gate-2", Token: "def"},
		}

		added, err := store.SeedRoster(ctx, roster)
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = store.SeedRoster(ctx, roster)
		require.NoError(t, err)
		assert.Equal(t, 0, added)
	})

	t.Run("lookup by token", func(t *testing.T) {
		d, err := store.FindByToken(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "gate-1", d.Entrypoint)

		_, err = store.FindByToken(ctx, "unknown")
		assert.ErrorIs(t, err, devices.ErrDeviceNotFound)
	})

	t.Run("heartbeat state survives a round trip", func(t *testing.T) {
		d, err := store.Get(ctx, "gate-1")
		require.NoError(t, err)
		require.Nil(t, d.LastSeen)

		now := time.Now().UTC().Truncate(time.Microsecond)
		hostname := "box-1"
		uptime := int64(3600)
		ip := "10.0.0.42"
		d.LastSeen = &now
		d.Hostname = &hostname
		d.UptimeS = &uptime
		d.IP = &ip
		require.NoError(t, store.Save(ctx, d))

		stored, err := store.Get(ctx, "gate-1")
		require.NoError(t, err)
		require.NotNil(t, stored.LastSeen)
		assert.True(t, stored.LastSeen.Equal(now))
		require.NotNil(t, stored.Hostname)
		assert.Equal(t, "box-1", *stored.Hostname)
		require.NotNil(t, stored.UptimeS)
		assert.Equal(t, int64(3600), *stored.UptimeS)
	})

	t.Run("save unknown device fails", func(t *testing.T) {
		err := store.Save(ctx, &devices.Device{Entrypoint: "gate-9", Token: "zzz"})
		assert.ErrorIs(t, err, devices.ErrDeviceNotFound)
	})

	t.Run("list is ordered", func(t *testing.T) {
		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "gate-1", list[0].Entrypoint)
		assert.Equal(t, "gate-2", list[1].Entrypoint)
	})

	t.Run("operator accounts", func(t *testing.T) {
		ops := operators.NewPGStore(pool)

		created, err := ops.Create(ctx, "admin", "fake-hash")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		_, err = ops.Create(ctx, "admin", "other-hash")
		assert.ErrorIs(t, err, operators.ErrUsernameExists)

		fetched, err := ops.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, created.ID, fetched.ID)
	})
}
