package devices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deviceColumns = `entrypoint, token, location, ip, mac_address, hardware, access_type, notes,
	last_seen, hostname, uptime_s, load1, mem_free_mb, agent_ver`

// PGStore persists the registry in Postgres. Row-level locking gives
// the per-entrypoint write serialization the registry requires.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, entrypoint string) (*Device, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE entrypoint = $1`, entrypoint)
	return scanDevice(row)
}

func (s *PGStore) FindByToken(ctx context.Context, token string) (*Device, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE token = $1`, token)
	return scanDevice(row)
}

func (s *PGStore) List(ctx context.Context) ([]Device, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices ORDER BY entrypoint`)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var result []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return result, nil
}

func (s *PGStore) Save(ctx context.Context, d *Device) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE devices SET
			token = $2, location = $3, ip = $4, mac_address = $5, hardware = $6,
			access_type = $7, notes = $8, last_seen = $9, hostname = $10,
			uptime_s = $11, load1 = $12, mem_free_mb = $13, agent_ver = $14
		WHERE entrypoint = $1`,
		d.Entrypoint, d.Token, d.Location, d.IP, d.MACAddress, d.Hardware,
		d.AccessType, d.Notes, d.LastSeen, d.Hostname,
		d.UptimeS, d.Load1, d.MemFreeMB, d.AgentVer)
	if err != nil {
		return fmt.Errorf("save device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *PGStore) SeedRoster(ctx context.Context, records []Device) (int, error) {
	inserted := 0
	for _, r := range records {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO devices (`+deviceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (entrypoint) DO NOTHING`,
			r.Entrypoint, r.Token, r.Location, r.IP, r.MACAddress, r.Hardware,
			r.AccessType, r.Notes, r.LastSeen, r.Hostname,
			r.UptimeS, r.Load1, r.MemFreeMB, r.AgentVer)
		if err != nil {
			return inserted, fmt.Errorf("seed device %s: %w", r.Entrypoint, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func scanDevice(row pgx.Row) (*Device, error) {
	var d Device
	err := row.Scan(
		&d.Entrypoint, &d.Token, &d.Location, &d.IP, &d.MACAddress, &d.Hardware,
		&d.AccessType, &d.Notes, &d.LastSeen, &d.Hostname,
		&d.UptimeS, &d.Load1, &d.MemFreeMB, &d.AgentVer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("scan device: %w", err)
	}
	return &d, nil
}
