package models

import "time"

type EventStatus string

const (
	EventStatusDraft  EventStatus = "draft"
	EventStatusOpen   EventStatus = "open"
	EventStatusClosed EventStatus = "closed"
)

// TeamConfig controls whether an event accepts team registrations and
// what sizes a team may have.
type TeamConfig struct {
	Enabled bool `json:"enabled"`
	MinSize int  `json:"min_size"`
	MaxSize int  `json:"max_size"`
}

type Event struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Status               EventStatus `json:"status"`
	RegistrationLimit    *int        `json:"registration_limit,omitempty"` // nil = unlimited
	RegistrationDeadline time.Time   `json:"registration_deadline"`
	Teams                TeamConfig  `json:"teams"`
	RegisteredCount      int         `json:"registered_count"`
	CreatedAt            time.Time   `json:"created_at"`
}

// AcceptsRegistrations reports whether the event is open and its deadline
// has not passed at the given instant.
func (e *Event) AcceptsRegistrations(now time.Time) bool {
	return e.Status == EventStatusOpen && now.Before(e.RegistrationDeadline)
}
