package models

import "time"

// Ticket is the redeemable proof of a confirmed registration. Exactly one
// ticket exists per registration. IsScanned/ScannedAt are a cached view of
// the Attendance record and are never the source of truth.
type Ticket struct {
	ID             string     `json:"id"` // human-readable, e.g. TKT-0f3a...
	RegistrationID string     `json:"registration_id"`
	QRCode         string     `json:"qr_code"`
	IsScanned      bool       `json:"is_scanned"`
	ScannedAt      *time.Time `json:"scanned_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
