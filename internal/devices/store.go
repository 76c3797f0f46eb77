package devices

import (
	"context"
	"errors"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
)

// Store is the device registry. Implementations must serialize writes
// to the same entrypoint; writes to different entrypoints may proceed
// concurrently.
type Store interface {
	// Get returns the device for an entrypoint, ErrDeviceNotFound if absent.
	Get(ctx context.Context, entrypoint string) (*Device, error)
	// FindByToken returns the device holding the given bearer token,
	// ErrDeviceNotFound if no device owns it. Comparison is exact equality.
	FindByToken(ctx context.Context, token string) (*Device, error)
	// List returns all devices in registry order.
	List(ctx context.Context) ([]Device, error)
	// Save persists a full-record overwrite of an existing device.
	Save(ctx context.Context, device *Device) error
	// SeedRoster inserts only entrypoints absent from the store and
	// returns how many were inserted. Existing records are left untouched;
	// the roster is a seed, not a sync source.
	SeedRoster(ctx context.Context, records []Device) (int, error)
}
