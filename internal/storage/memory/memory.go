// Package memory is an in-process storage backend. A single mutex spans
// every operation, so each check-then-write sequence is atomic by
// construction and the backend is a faithful stand-in for the postgres
// semantics in local runs and in concurrency tests.
package memory

import (
	"sync"
	"time"

	"gatherly/internal/lib/token"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/google/uuid"
)

const inviteCodeAttempts = 5

type Storage struct {
	mu sync.Mutex

	events        map[string]*models.Event
	registrations map[string]*models.Registration
	regBySlot     map[string]*models.Registration // eventID + "|" + participantID, cancelled included
	teams         map[string]*models.Team
	teamByCode    map[string]*models.Team
	tickets       map[string]*models.Ticket // by ticket ID
	ticketByReg   map[string]*models.Ticket
	ticketByQR    map[string]*models.Ticket
	attendance    map[string]*models.Attendance // by ticket ID
}

func New() *Storage {
	return &Storage{
		events:        make(map[string]*models.Event),
		registrations: make(map[string]*models.Registration),
		regBySlot:     make(map[string]*models.Registration),
		teams:         make(map[string]*models.Team),
		teamByCode:    make(map[string]*models.Team),
		tickets:       make(map[string]*models.Ticket),
		ticketByReg:   make(map[string]*models.Ticket),
		ticketByQR:    make(map[string]*models.Ticket),
		attendance:    make(map[string]*models.Attendance),
	}
}

func slotKey(eventID, participantID string) string {
	return eventID + "|" + participantID
}

func (s *Storage) CreateEvent(ev models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uuid.New().String()
	ev.CreatedAt = time.Now().UTC()

	stored := ev
	s.events[ev.ID] = &stored

	return &ev, nil
}

func (s *Storage) GetEvent(id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	out := *ev
	out.RegisteredCount = s.activeRegistrationCount(id)

	return &out, nil
}

func (s *Storage) ListEvents() ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.Event
	for _, ev := range s.events {
		out := *ev
		out.RegisteredCount = s.activeRegistrationCount(ev.ID)
		events = append(events, out)
	}

	return events, nil
}

// activeRegistrationCount counts non-cancelled registrations. Callers
// must hold the lock.
func (s *Storage) activeRegistrationCount(eventID string) int {
	count := 0
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.Status != models.RegistrationStatusCancelled {
			count++
		}
	}
	return count
}

func (s *Storage) inFormingTeam(eventID, participantID string) bool {
	for _, t := range s.teams {
		if t.EventID == eventID && t.Status == models.TeamStatusForming && t.HasMember(participantID) {
			return true
		}
	}
	return false
}

func (s *Storage) newTicket(registrationID string) (*models.Ticket, error) {
	ticketID, err := token.NewTicketID()
	if err != nil {
		return nil, err
	}
	qrCode, err := token.NewQRCode()
	if err != nil {
		return nil, err
	}

	tk := &models.Ticket{
		ID:             ticketID,
		RegistrationID: registrationID,
		QRCode:         qrCode,
		CreatedAt:      time.Now().UTC(),
	}

	s.tickets[tk.ID] = tk
	s.ticketByReg[registrationID] = tk
	s.ticketByQR[tk.QRCode] = tk

	return tk, nil
}

func (s *Storage) RegisterParticipant(eventID, participantID string) (*models.Registration, *models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return nil, nil, storage.ErrEventNotFound
	}

	now := time.Now().UTC()
	if ev.Status != models.EventStatusOpen {
		return nil, nil, storage.ErrEventNotOpen
	}
	if !now.Before(ev.RegistrationDeadline) {
		return nil, nil, storage.ErrDeadlinePassed
	}

	if s.inFormingTeam(eventID, participantID) {
		return nil, nil, storage.ErrAlreadyInTeam
	}

	// A repeat registration fails as a duplicate even when the event is
	// full, so this check precedes the capacity gate.
	if _, exists := s.regBySlot[slotKey(eventID, participantID)]; exists {
		return nil, nil, storage.ErrAlreadyRegistered
	}

	if ev.RegistrationLimit != nil && s.activeRegistrationCount(eventID) >= *ev.RegistrationLimit {
		return nil, nil, storage.ErrEventFull
	}

	reg := &models.Registration{
		ID:            uuid.New().String(),
		EventID:       eventID,
		ParticipantID: participantID,
		Kind:          models.RegistrationKindIndividual,
		Status:        models.RegistrationStatusRegistered,
		CreatedAt:     now,
	}
	s.registrations[reg.ID] = reg
	s.regBySlot[slotKey(eventID, participantID)] = reg

	tk, err := s.newTicket(reg.ID)
	if err != nil {
		delete(s.registrations, reg.ID)
		delete(s.regBySlot, slotKey(eventID, participantID))
		return nil, nil, err
	}

	regOut := *reg
	tkOut := *tk
	return &regOut, &tkOut, nil
}

func (s *Storage) CancelRegistration(registrationID, participantID string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[registrationID]
	if !ok {
		return nil, storage.ErrRegistrationNotFound
	}
	if reg.ParticipantID != participantID {
		return nil, storage.ErrNotOwner
	}
	if reg.Status == models.RegistrationStatusCancelled {
		return nil, storage.ErrAlreadyCancelled
	}

	reg.Status = models.RegistrationStatusCancelled

	out := *reg
	return &out, nil
}

func (s *Storage) CreateTeam(eventID, leaderID, name string, maxSize int) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	now := time.Now().UTC()
	if !ev.Teams.Enabled {
		return nil, storage.ErrTeamsDisabled
	}
	if ev.Status != models.EventStatusOpen {
		return nil, storage.ErrEventNotOpen
	}
	if !now.Before(ev.RegistrationDeadline) {
		return nil, storage.ErrDeadlinePassed
	}
	if maxSize < ev.Teams.MinSize || maxSize > ev.Teams.MaxSize {
		return nil, storage.ErrTeamSizeInvalid
	}

	if _, exists := s.regBySlot[slotKey(eventID, leaderID)]; exists {
		return nil, storage.ErrAlreadyRegistered
	}
	if s.inFormingTeam(eventID, leaderID) {
		return nil, storage.ErrAlreadyInTeam
	}

	var code string
	allocated := false
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		c, err := token.NewInviteCode()
		if err != nil {
			return nil, err
		}
		if _, taken := s.teamByCode[c]; !taken {
			code = c
			allocated = true
			break
		}
	}
	if !allocated {
		return nil, storage.ErrCodeAllocationExhausted
	}

	team := &models.Team{
		ID:         uuid.New().String(),
		EventID:    eventID,
		LeaderID:   leaderID,
		Name:       name,
		InviteCode: code,
		MaxSize:    maxSize,
		Members:    []string{leaderID},
		Status:     models.TeamStatusForming,
		CreatedAt:  now,
	}
	s.teams[team.ID] = team
	s.teamByCode[code] = team

	out := copyTeam(team)
	return &out, nil
}

func (s *Storage) JoinTeam(inviteCode, participantID string) (*models.Team, []models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teamByCode[inviteCode]
	if !ok {
		return nil, nil, storage.ErrTeamNotFound
	}
	if team.Status != models.TeamStatusForming {
		return nil, nil, storage.ErrTeamNotForming
	}

	ev, ok := s.events[team.EventID]
	if !ok {
		return nil, nil, storage.ErrEventNotFound
	}

	now := time.Now().UTC()
	if ev.Status != models.EventStatusOpen {
		return nil, nil, storage.ErrEventNotOpen
	}
	if !now.Before(ev.RegistrationDeadline) {
		return nil, nil, storage.ErrDeadlinePassed
	}

	if team.HasMember(participantID) {
		return nil, nil, storage.ErrAlreadyMember
	}
	if team.IsFull() {
		return nil, nil, storage.ErrTeamFull
	}
	if s.inFormingTeam(team.EventID, participantID) {
		return nil, nil, storage.ErrAlreadyInTeam
	}
	if _, exists := s.regBySlot[slotKey(team.EventID, participantID)]; exists {
		return nil, nil, storage.ErrAlreadyRegistered
	}

	team.Members = append(team.Members, participantID)

	var tickets []models.Ticket
	if len(team.Members) == team.MaxSize {
		issued, err := s.completeTeam(team, ev, now)
		if err != nil {
			// roll the append back so the join fails cleanly
			team.Members = team.Members[:len(team.Members)-1]
			return nil, nil, err
		}
		tickets = issued
		team.Status = models.TeamStatusComplete
	}

	out := copyTeam(team)
	return &out, tickets, nil
}

// completeTeam issues one registration and one ticket per member,
// idempotently, after verifying the event can admit the whole cohort.
// Every identifier is generated before any map is touched, so a failed
// generation leaves no partial state behind. Callers must hold the lock.
func (s *Storage) completeTeam(team *models.Team, ev *models.Event, now time.Time) ([]models.Ticket, error) {
	if ev.RegistrationLimit != nil &&
		s.activeRegistrationCount(team.EventID)+len(team.Members) > *ev.RegistrationLimit {
		return nil, storage.ErrEventFull
	}

	newRegs := make([]*models.Registration, 0, len(team.Members))
	newTickets := make([]*models.Ticket, 0, len(team.Members))
	tickets := make([]models.Ticket, 0, len(team.Members))

	for _, memberID := range team.Members {
		key := slotKey(team.EventID, memberID)

		reg, exists := s.regBySlot[key]
		if !exists {
			reg = &models.Registration{
				ID:            uuid.New().String(),
				EventID:       team.EventID,
				ParticipantID: memberID,
				Kind:          models.RegistrationKindTeam,
				Status:        models.RegistrationStatusRegistered,
				CreatedAt:     now,
			}
			newRegs = append(newRegs, reg)
		}

		tk, issued := s.ticketByReg[reg.ID]
		if !issued {
			ticketID, err := token.NewTicketID()
			if err != nil {
				return nil, err
			}
			qrCode, err := token.NewQRCode()
			if err != nil {
				return nil, err
			}

			tk = &models.Ticket{
				ID:             ticketID,
				RegistrationID: reg.ID,
				QRCode:         qrCode,
				CreatedAt:      now,
			}
			newTickets = append(newTickets, tk)
		}
		tickets = append(tickets, *tk)
	}

	for _, reg := range newRegs {
		s.registrations[reg.ID] = reg
		s.regBySlot[slotKey(reg.EventID, reg.ParticipantID)] = reg
	}
	for _, tk := range newTickets {
		s.tickets[tk.ID] = tk
		s.ticketByReg[tk.RegistrationID] = tk
		s.ticketByQR[tk.QRCode] = tk
	}

	return tickets, nil
}

func (s *Storage) LeaveTeam(teamID, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return storage.ErrTeamNotFound
	}
	if team.Status != models.TeamStatusForming {
		return storage.ErrTeamNotForming
	}
	if team.LeaderID == participantID {
		return storage.ErrLeaderCannotLeave
	}
	if !team.HasMember(participantID) {
		return storage.ErrNotMember
	}

	members := team.Members[:0]
	for _, m := range team.Members {
		if m != participantID {
			members = append(members, m)
		}
	}
	team.Members = members

	return nil
}

func (s *Storage) CancelTeam(teamID, leaderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return storage.ErrTeamNotFound
	}
	if team.Status != models.TeamStatusForming {
		return storage.ErrTeamNotForming
	}
	if team.LeaderID != leaderID {
		return storage.ErrNotLeader
	}

	team.Status = models.TeamStatusCancelled

	return nil
}

func (s *Storage) RecordScan(eventID, qrCode, staffID, remarks string) (*models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tk, ok := s.ticketByQR[qrCode]
	if !ok {
		return nil, storage.ErrTicketNotFound
	}

	return s.recordAttendance(eventID, tk, staffID, models.AttendanceMethodScan, remarks)
}

func (s *Storage) RecordManual(eventID, participantID, staffID, remarks string) (*models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regBySlot[slotKey(eventID, participantID)]
	if !ok || reg.Status == models.RegistrationStatusCancelled {
		return nil, storage.ErrTicketNotFound
	}
	tk, ok := s.ticketByReg[reg.ID]
	if !ok {
		return nil, storage.ErrTicketNotFound
	}

	return s.recordAttendance(eventID, tk, staffID, models.AttendanceMethodManual, remarks)
}

// recordAttendance creates the canonical attendance record, at most once
// per ticket, and refreshes the ticket's cached scan fields. Callers must
// hold the lock.
func (s *Storage) recordAttendance(eventID string, tk *models.Ticket, staffID string, method models.AttendanceMethod, remarks string) (*models.Attendance, error) {
	reg, ok := s.registrations[tk.RegistrationID]
	if !ok {
		return nil, storage.ErrTicketNotFound
	}
	if reg.EventID != eventID {
		return nil, storage.ErrWrongEvent
	}

	if prior, exists := s.attendance[tk.ID]; exists {
		return nil, &storage.AlreadyScannedError{ScannedAt: prior.ScannedAt}
	}

	att := &models.Attendance{
		ID:             uuid.New().String(),
		EventID:        eventID,
		TicketID:       tk.ID,
		RegistrationID: reg.ID,
		ParticipantID:  reg.ParticipantID,
		ScannedAt:      time.Now().UTC(),
		ScannedBy:      staffID,
		Method:         method,
		Remarks:        remarks,
	}
	s.attendance[tk.ID] = att

	scannedAt := att.ScannedAt
	tk.IsScanned = true
	tk.ScannedAt = &scannedAt

	out := *att
	return &out, nil
}

func copyTeam(t *models.Team) models.Team {
	out := *t
	out.Members = append([]string(nil), t.Members...)
	return out
}
