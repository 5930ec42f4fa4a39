package models

import "time"

type AttendanceMethod string

const (
	AttendanceMethodScan   AttendanceMethod = "scan"
	AttendanceMethodManual AttendanceMethod = "manual"
)

// Attendance is the canonical record that a ticket was redeemed. At most
// one record exists per ticket; it is never mutated or deleted.
type Attendance struct {
	ID             string           `json:"id"`
	EventID        string           `json:"event_id"`
	TicketID       string           `json:"ticket_id"`
	RegistrationID string           `json:"registration_id"`
	ParticipantID  string           `json:"participant_id"`
	ScannedAt      time.Time        `json:"scanned_at"`
	ScannedBy      string           `json:"scanned_by"`
	Method         AttendanceMethod `json:"method"`
	Remarks        string           `json:"remarks,omitempty"`
}
