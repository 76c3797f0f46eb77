package devices

import (
	"context"
	"sort"
	"sync"
)

// MemStore keeps the registry in process memory. It backs the
// "memory" storage driver for development and tests.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]*Device
}

func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[string]*Device),
	}
}

func (s *MemStore) Get(ctx context.Context, entrypoint string) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.records[entrypoint]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemStore) FindByToken(ctx context.Context, token string) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.records {
		if d.Token == token {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrDeviceNotFound
}

func (s *MemStore) List(ctx context.Context) ([]Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Device, 0, len(s.records))
	for _, d := range s.records {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Entrypoint < result[j].Entrypoint
	})
	return result, nil
}

func (s *MemStore) Save(ctx context.Context, device *Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[device.Entrypoint]; !ok {
		return ErrDeviceNotFound
	}
	cp := *device
	s.records[device.Entrypoint] = &cp
	return nil
}

func (s *MemStore) SeedRoster(ctx context.Context, records []Device) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, r := range records {
		if _, ok := s.records[r.Entrypoint]; ok {
			continue
		}
		cp := r
		s.records[r.Entrypoint] = &cp
		inserted++
	}
	return inserted, nil
}
