package models

import "time"

type RegistrationKind string

const (
	RegistrationKindIndividual  RegistrationKind = "individual"
	RegistrationKindTeam        RegistrationKind = "team"
	RegistrationKindMerchandise RegistrationKind = "merchandise"
)

type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusRejected   RegistrationStatus = "rejected"
)

// Registration is one participant's claim on one event. The pair
// (EventID, ParticipantID) is unique for the lifetime of the system;
// cancelling keeps the slot occupied.
type Registration struct {
	ID            string             `json:"id"`
	EventID       string             `json:"event_id"`
	ParticipantID string             `json:"participant_id"`
	Kind          RegistrationKind   `json:"kind"`
	Status        RegistrationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}
