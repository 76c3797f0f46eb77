package devices

import (
	"encoding/json"
	"fmt"
	"os"
)

// RosterRecord is one device seed entry from the external roster file.
type RosterRecord struct {
	Entrypoint string  `json:"entrypoint"`
	Token      string  `json:"token"`
	Location   *string `json:"location"`
	IP         *string `json:"ip"`
	MACAddress *string `json:"mac_address"`
	Hardware   *string `json:"hardware"`
	AccessType *string `json:"access_type"`
	Notes      *string `json:"notes"`
}

type rosterFile struct {
	Devices []RosterRecord `json:"devices"`
}

// LoadRoster reads the device seed list from path. A missing file is
// not an error; it yields an empty roster.
func LoadRoster(path string) ([]Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var roster rosterFile
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}

	result := make([]Device, 0, len(roster.Devices))
	for _, r := range roster.Devices {
		if r.Entrypoint == "" {
			return nil, fmt.Errorf("roster file %s: record with empty entrypoint", path)
		}
		if r.Token == "" {
			return nil, fmt.Errorf("roster file %s: device %s has no token", path, r.Entrypoint)
		}
		result = append(result, Device{
			Entrypoint: r.Entrypoint,
			Token:      r.Token,
			Location:   r.Location,
			IP:         r.IP,
			MACAddress: r.MACAddress,
			Hardware:   r.Hardware,
			AccessType: r.AccessType,
			Notes:      r.Notes,
		})
	}
	return result, nil
}
