package heartbeat

import "time"

// DefaultGrace is the registry-wide silence window after which a
// device is considered offline.
const DefaultGrace = 120 * time.Second

// IsOnline reports whether a device with the given last-seen time is
// considered online at now. The boundary is inclusive: a device seen
// exactly grace ago is still online. A device that never reported is
// offline. Stored timestamps without zone information are treated as
// UTC, never as local time.
func IsOnline(lastSeen *time.Time, now time.Time, grace time.Duration) bool {
	if lastSeen == nil {
		return false
	}
	return now.UTC().Sub(lastSeen.UTC()) <= grace
}
