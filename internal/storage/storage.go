// Package storage defines the persistence contract for the registration
// core and the domain errors its backends report. Every operation that
// reads shared state and writes based on it (capacity, team size,
// uniqueness, attendance) is a single atomic call here; callers never
// compose a check with a separate write.
package storage

import (
	"errors"
	"fmt"
	"time"

	"gatherly/internal/models"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrRegistrationNotFound = errors.New("registration not found")

	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrDeadlinePassed    = errors.New("registration deadline has passed")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("participant already registered for this event")
	ErrAlreadyCancelled  = errors.New("registration already cancelled")

	ErrTeamsDisabled     = errors.New("team registration is disabled for this event")
	ErrTeamSizeInvalid   = errors.New("team size is outside the event's allowed range")
	ErrTeamNotForming    = errors.New("team is no longer forming")
	ErrTeamFull          = errors.New("team is full")
	ErrAlreadyMember     = errors.New("participant is already a member of this team")
	ErrAlreadyInTeam     = errors.New("participant is already in a forming team for this event")
	ErrNotMember         = errors.New("participant is not a member of this team")
	ErrNotLeader         = errors.New("only the team leader may do this")
	ErrLeaderCannotLeave = errors.New("team leader cannot leave, cancel the team instead")

	ErrCodeAllocationExhausted = errors.New("could not allocate a unique invite code")

	ErrAlreadyIssued  = errors.New("ticket already issued for this registration")
	ErrWrongEvent     = errors.New("ticket belongs to a different event")
	ErrAlreadyScanned = errors.New("ticket already scanned")

	ErrNotOwner = errors.New("registration belongs to a different participant")
)

// AlreadyScannedError reports a duplicate scan together with the moment
// the winning scan happened. errors.Is(err, ErrAlreadyScanned) holds.
type AlreadyScannedError struct {
	ScannedAt time.Time
}

func (e *AlreadyScannedError) Error() string {
	return fmt.Sprintf("ticket already scanned at %s", e.ScannedAt.UTC().Format(time.RFC3339))
}

func (e *AlreadyScannedError) Is(target error) bool {
	return target == ErrAlreadyScanned
}

// Storage is the full backend contract. Postgres implements it with
// transactions and uniqueness constraints; the memory backend with a
// single lock. Handlers depend on narrow per-handler subsets of it.
type Storage interface {
	CreateEvent(ev models.Event) (*models.Event, error)
	GetEvent(eventID string) (*models.Event, error)
	ListEvents() ([]models.Event, error)

	// RegisterParticipant admits one participant to one event: capacity
	// check, uniqueness check, registration insert and ticket issue as a
	// single atomic step.
	RegisterParticipant(eventID, participantID string) (*models.Registration, *models.Ticket, error)

	// CancelRegistration transitions the registration to cancelled. The
	// (event, participant) uniqueness slot stays occupied.
	CancelRegistration(registrationID, participantID string) (*models.Registration, error)

	CreateTeam(eventID, leaderID, name string, maxSize int) (*models.Team, error)

	// JoinTeam appends the participant to the team behind the invite
	// code. When the join fills the last seat the team completes and one
	// registration plus one ticket is issued per member; the returned
	// ticket slice is non-empty exactly in that case.
	JoinTeam(inviteCode, participantID string) (*models.Team, []models.Ticket, error)

	LeaveTeam(teamID, participantID string) error
	CancelTeam(teamID, leaderID string) error

	// RecordScan redeems the ticket carrying the QR payload for the given
	// event. At most one attendance record ever exists per ticket; a
	// losing duplicate gets *AlreadyScannedError.
	RecordScan(eventID, qrCode, staffID, remarks string) (*models.Attendance, error)

	// RecordManual redeems the ticket of the participant's registration
	// for the event, with method=manual. Same uniqueness semantics as
	// RecordScan.
	RecordManual(eventID, participantID, staffID, remarks string) (*models.Attendance, error)
}
