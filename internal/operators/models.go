package operators

import "time"

// Operator is a human account allowed to read the device list and run
// remote diagnostics.
type Operator struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
