package heartbeat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOnlineWithinGrace(t *testing.T) {
	now := time.Now().UTC()
	lastSeen := now.Add(-119 * time.Second)

	assert.True(t, IsOnline(&lastSeen, now, DefaultGrace))
}

func TestIsOnlineBoundaryInclusive(t *testing.T) {
	now := time.Now().UTC()
	lastSeen := now.Add(-120 * time.Second)

	assert.True(t, IsOnline(&lastSeen, now, DefaultGrace))
}

func TestIsOnlineBeyondGrace(t *testing.T) {
	now := time.Now().UTC()
	lastSeen := now.Add(-121 * time.Second)

	assert.False(t, IsOnline(&lastSeen, now, DefaultGrace))
}

func TestIsOnlineNeverReported(t *testing.T) {
	now := time.Now().UTC()

	assert.False(t, IsOnline(nil, now, DefaultGrace))
}

func TestIsOnlineCoercesZonelessTimestamps(t *testing.T) {
	// A timestamp loaded without zone information must be compared as
	// UTC, not local time.
	loc := time.FixedZone("somewhere-east", 2*60*60)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lastSeen := time.Date(2025, 6, 1, 13, 59, 0, 0, loc) // 11:59 UTC

	assert.True(t, IsOnline(&lastSeen, now, DefaultGrace))
}
