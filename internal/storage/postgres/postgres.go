// Package postgres is the production storage backend. Every invariant of
// the registration core lives here as either a uniqueness constraint or a
// row lock taken inside a single transaction: one registration per
// (event, participant), one ticket per registration, one attendance per
// ticket, globally unique invite codes, and serialized capacity checks.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/config"
	"gatherly/internal/lib/token"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// inviteCodeAttempts bounds the retry loop against the invite code
// uniqueness constraint before failing with ErrCodeAllocationExhausted.
const inviteCodeAttempts = 5

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	s := &Storage{DB: db}

	if err = s.bootstrap(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// bootstrap creates the schema. The named constraints carry the core
// invariants; the code maps their violations to domain errors.
func (s *Storage) bootstrap() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		registration_limit INT,
		registration_deadline TIMESTAMPTZ NOT NULL,
		team_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		team_min_size INT NOT NULL DEFAULT 0,
		team_max_size INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS registrations (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id),
		participant_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT registrations_event_participant_key UNIQUE (event_id, participant_id)
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id),
		leader_id TEXT NOT NULL,
		name TEXT NOT NULL,
		invite_code TEXT NOT NULL,
		max_size INT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT teams_invite_code_key UNIQUE (invite_code)
	);

	CREATE TABLE IF NOT EXISTS team_members (
		team_id TEXT NOT NULL REFERENCES teams(id),
		participant_id TEXT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (team_id, participant_id)
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		registration_id TEXT NOT NULL REFERENCES registrations(id),
		qr_code TEXT NOT NULL,
		is_scanned BOOLEAN NOT NULL DEFAULT FALSE,
		scanned_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT tickets_registration_id_key UNIQUE (registration_id),
		CONSTRAINT tickets_qr_code_key UNIQUE (qr_code)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		ticket_id TEXT NOT NULL,
		registration_id TEXT NOT NULL,
		participant_id TEXT NOT NULL,
		scanned_at TIMESTAMPTZ NOT NULL,
		scanned_by TEXT NOT NULL,
		method TEXT NOT NULL,
		remarks TEXT NOT NULL DEFAULT '',
		CONSTRAINT attendance_ticket_id_key UNIQUE (ticket_id)
	);`

	if _, err := s.DB.Exec(schema); err != nil {
		return err
	}

	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code.Name() == "unique_violation" &&
		(constraint == "" || pqErr.Constraint == constraint)
}

func (s *Storage) CreateEvent(ev models.Event) (*models.Event, error) {
	ev.ID = uuid.New().String()
	ev.CreatedAt = time.Now().UTC()

	_, err := s.DB.Exec(`
		INSERT INTO events (id, title, status, registration_limit, registration_deadline,
			team_enabled, team_min_size, team_max_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.Title, ev.Status, ev.RegistrationLimit, ev.RegistrationDeadline,
		ev.Teams.Enabled, ev.Teams.MinSize, ev.Teams.MaxSize, ev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &ev, nil
}

func (s *Storage) GetEvent(id string) (*models.Event, error) {
	var ev models.Event
	err := s.DB.QueryRow(`
		SELECT id, title, status, registration_limit, registration_deadline,
			team_enabled, team_min_size, team_max_size, created_at
		FROM events
		WHERE id = $1`, id,
	).Scan(
		&ev.ID, &ev.Title, &ev.Status, &ev.RegistrationLimit, &ev.RegistrationDeadline,
		&ev.Teams.Enabled, &ev.Teams.MinSize, &ev.Teams.MaxSize, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	err = s.DB.QueryRow(`
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status <> 'cancelled'`, id,
	).Scan(&ev.RegisteredCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration count: %w", err)
	}

	return &ev, nil
}

func (s *Storage) ListEvents() ([]models.Event, error) {
	rows, err := s.DB.Query(`
		SELECT e.id, e.title, e.status, e.registration_limit, e.registration_deadline,
			e.team_enabled, e.team_min_size, e.team_max_size, e.created_at,
			COUNT(r.id) FILTER (WHERE r.status <> 'cancelled')
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		GROUP BY e.id
		ORDER BY e.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		err = rows.Scan(
			&ev.ID, &ev.Title, &ev.Status, &ev.RegistrationLimit, &ev.RegistrationDeadline,
			&ev.Teams.Enabled, &ev.Teams.MinSize, &ev.Teams.MaxSize, &ev.CreatedAt,
			&ev.RegisteredCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// lockEvent acquires a row-level lock on the event, serializing every
// capacity decision for it against concurrent registrations and team
// completions in other transactions.
func lockEvent(tx *sql.Tx, eventID string) (*models.Event, error) {
	var ev models.Event
	err := tx.QueryRow(`
		SELECT id, title, status, registration_limit, registration_deadline,
			team_enabled, team_min_size, team_max_size, created_at
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID,
	).Scan(
		&ev.ID, &ev.Title, &ev.Status, &ev.RegistrationLimit, &ev.RegistrationDeadline,
		&ev.Teams.Enabled, &ev.Teams.MinSize, &ev.Teams.MaxSize, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event row: %w", err)
	}

	return &ev, nil
}

func activeRegistrationCount(tx *sql.Tx, eventID string) (int, error) {
	var count int
	err := tx.QueryRow(`
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status <> 'cancelled'`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return count, nil
}

func inFormingTeam(tx *sql.Tx, eventID, participantID string) (bool, error) {
	var exists bool
	err := tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1
			FROM team_members tm
			JOIN teams t ON t.id = tm.team_id
			WHERE t.event_id = $1 AND tm.participant_id = $2 AND t.status = 'forming'
		)`, eventID, participantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check forming team membership: %w", err)
	}

	return exists, nil
}

// hasRegistration checks for any registration row, cancelled included: a
// cancelled registration keeps the (event, participant) slot occupied.
func hasRegistration(tx *sql.Tx, eventID, participantID string) (bool, error) {
	var exists bool
	err := tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND participant_id = $2
		)`, eventID, participantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing registration: %w", err)
	}

	return exists, nil
}

func insertTicket(tx *sql.Tx, registrationID string) (*models.Ticket, error) {
	ticketID, err := token.NewTicketID()
	if err != nil {
		return nil, err
	}
	qrCode, err := token.NewQRCode()
	if err != nil {
		return nil, err
	}

	tk := models.Ticket{
		ID:             ticketID,
		RegistrationID: registrationID,
		QRCode:         qrCode,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = tx.Exec(`
		INSERT INTO tickets (id, registration_id, qr_code, is_scanned, created_at)
		VALUES ($1, $2, $3, FALSE, $4)`,
		tk.ID, tk.RegistrationID, tk.QRCode, tk.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "tickets_registration_id_key") {
			return nil, storage.ErrAlreadyIssued
		}
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	return &tk, nil
}

func (s *Storage) RegisterParticipant(eventID, participantID string) (*models.Registration, *models.Ticket, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ev, err := lockEvent(tx, eventID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if ev.Status != models.EventStatusOpen {
		return nil, nil, storage.ErrEventNotOpen
	}
	if !now.Before(ev.RegistrationDeadline) {
		return nil, nil, storage.ErrDeadlinePassed
	}

	forming, err := inFormingTeam(tx, eventID, participantID)
	if err != nil {
		return nil, nil, err
	}
	if forming {
		return nil, nil, storage.ErrAlreadyInTeam
	}

	// A repeat registration must fail as a duplicate even when the event
	// is full, so this check precedes the capacity gate. The unique
	// constraint on the insert below still backstops the race.
	registered, err := hasRegistration(tx, eventID, participantID)
	if err != nil {
		return nil, nil, err
	}
	if registered {
		return nil, nil, storage.ErrAlreadyRegistered
	}

	if ev.RegistrationLimit != nil {
		count, err := activeRegistrationCount(tx, eventID)
		if err != nil {
			return nil, nil, err
		}
		if count >= *ev.RegistrationLimit {
			return nil, nil, storage.ErrEventFull
		}
	}

	reg := models.Registration{
		ID:            uuid.New().String(),
		EventID:       eventID,
		ParticipantID: participantID,
		Kind:          models.RegistrationKindIndividual,
		Status:        models.RegistrationStatusRegistered,
		CreatedAt:     now,
	}

	_, err = tx.Exec(`
		INSERT INTO registrations (id, event_id, participant_id, kind, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reg.ID, reg.EventID, reg.ParticipantID, reg.Kind, reg.Status, reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "registrations_event_participant_key") {
			return nil, nil, storage.ErrAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("failed to insert registration: %w", err)
	}

	tk, err := insertTicket(tx, reg.ID)
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &reg, tk, nil
}

func (s *Storage) CancelRegistration(registrationID, participantID string) (*models.Registration, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var reg models.Registration
	err = tx.QueryRow(`
		SELECT id, event_id, participant_id, kind, status, created_at
		FROM registrations
		WHERE id = $1
		FOR UPDATE`, registrationID,
	).Scan(&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.Kind, &reg.Status, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock registration: %w", err)
	}

	if reg.ParticipantID != participantID {
		return nil, storage.ErrNotOwner
	}
	if reg.Status == models.RegistrationStatusCancelled {
		return nil, storage.ErrAlreadyCancelled
	}

	_, err = tx.Exec(`UPDATE registrations SET status = 'cancelled' WHERE id = $1`, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel registration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	reg.Status = models.RegistrationStatusCancelled
	return &reg, nil
}

func (s *Storage) CreateTeam(eventID, leaderID, name string, maxSize int) (*models.Team, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ev, err := lockEvent(tx, eventID)
	if err != nil {
		return nil, err
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

	registered, err := hasRegistration(tx, eventID, leaderID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, storage.ErrAlreadyRegistered
	}

	forming, err := inFormingTeam(tx, eventID, leaderID)
	if err != nil {
		return nil, err
	}
	if forming {
		return nil, storage.ErrAlreadyInTeam
	}

	team := models.Team{
		ID:        uuid.New().String(),
		EventID:   eventID,
		LeaderID:  leaderID,
		Name:      name,
		MaxSize:   maxSize,
		Members:   []string{leaderID},
		Status:    models.TeamStatusForming,
		CreatedAt: now,
	}

	// Invite codes are short, so collisions happen. Retry against the
	// uniqueness constraint behind a savepoint; a failed INSERT would
	// otherwise abort the whole transaction.
	inserted := false
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := token.NewInviteCode()
		if err != nil {
			return nil, err
		}

		if _, err = tx.Exec(`SAVEPOINT invite_code`); err != nil {
			return nil, fmt.Errorf("failed to create savepoint: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO teams (id, event_id, leader_id, name, invite_code, max_size, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			team.ID, team.EventID, team.LeaderID, team.Name, code, team.MaxSize, team.Status, team.CreatedAt,
		)
		if err == nil {
			team.InviteCode = code
			inserted = true
			break
		}
		if isUniqueViolation(err, "teams_invite_code_key") {
			if _, err = tx.Exec(`ROLLBACK TO SAVEPOINT invite_code`); err != nil {
				return nil, fmt.Errorf("failed to roll back savepoint: %w", err)
			}
			continue
		}
		return nil, fmt.Errorf("failed to insert team: %w", err)
	}
	if !inserted {
		return nil, storage.ErrCodeAllocationExhausted
	}

	_, err = tx.Exec(`
		INSERT INTO team_members (team_id, participant_id, joined_at)
		VALUES ($1, $2, $3)`,
		team.ID, leaderID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert team leader: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &team, nil
}

// lockTeamByCode locks the team row so that concurrent joins on the same
// team serialize; each join observes the true member count.
func lockTeamByCode(tx *sql.Tx, inviteCode string) (*models.Team, error) {
	var team models.Team
	err := tx.QueryRow(`
		SELECT id, event_id, leader_id, name, invite_code, max_size, status, created_at
		FROM teams
		WHERE invite_code = $1
		FOR UPDATE`, inviteCode,
	).Scan(
		&team.ID, &team.EventID, &team.LeaderID, &team.Name,
		&team.InviteCode, &team.MaxSize, &team.Status, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to lock team row: %w", err)
	}

	return &team, nil
}

func teamMembers(tx *sql.Tx, teamID string) ([]string, error) {
	rows, err := tx.Query(`
		SELECT participant_id
		FROM team_members
		WHERE team_id = $1
		ORDER BY joined_at ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, id)
	}

	return members, rows.Err()
}

func (s *Storage) JoinTeam(inviteCode, participantID string) (*models.Team, []models.Ticket, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	team, err := lockTeamByCode(tx, inviteCode)
	if err != nil {
		return nil, nil, err
	}

	if team.Status != models.TeamStatusForming {
		return nil, nil, storage.ErrTeamNotForming
	}

	// Lock the event row too. RegisterParticipant and CreateTeam hold it
	// while they read team_members and registrations, so taking it here
	// serializes the membership and registration checks below against
	// both paths. Lock order is team then event, same as completion.
	ev, err := lockEvent(tx, team.EventID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if ev.Status != models.EventStatusOpen {
		return nil, nil, storage.ErrEventNotOpen
	}
	if !now.Before(ev.RegistrationDeadline) {
		return nil, nil, storage.ErrDeadlinePassed
	}

	members, err := teamMembers(tx, team.ID)
	if err != nil {
		return nil, nil, err
	}
	team.Members = members

	if team.HasMember(participantID) {
		return nil, nil, storage.ErrAlreadyMember
	}
	if team.IsFull() {
		return nil, nil, storage.ErrTeamFull
	}

	forming, err := inFormingTeam(tx, team.EventID, participantID)
	if err != nil {
		return nil, nil, err
	}
	if forming {
		return nil, nil, storage.ErrAlreadyInTeam
	}

	registered, err := hasRegistration(tx, team.EventID, participantID)
	if err != nil {
		return nil, nil, err
	}
	if registered {
		return nil, nil, storage.ErrAlreadyRegistered
	}

	_, err = tx.Exec(`
		INSERT INTO team_members (team_id, participant_id, joined_at)
		VALUES ($1, $2, $3)`,
		team.ID, participantID, now,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, nil, storage.ErrAlreadyMember
		}
		return nil, nil, fmt.Errorf("failed to insert team member: %w", err)
	}
	team.Members = append(team.Members, participantID)

	var tickets []models.Ticket
	if len(team.Members) == team.MaxSize {
		tickets, err = completeTeam(tx, team, now)
		if err != nil {
			return nil, nil, err
		}
		team.Status = models.TeamStatusComplete
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return team, tickets, nil
}

// completeTeam flips the team to complete and issues one registration and
// one ticket per member. The event row is locked so the bulk admission is
// serialized against individual registrations; if the remaining capacity
// cannot hold every member the whole join rolls back with ErrEventFull.
// Issuance is idempotent per member: an existing registration is reused
// and an existing ticket is never duplicated.
func completeTeam(tx *sql.Tx, team *models.Team, now time.Time) ([]models.Ticket, error) {
	ev, err := lockEvent(tx, team.EventID)
	if err != nil {
		return nil, err
	}

	if ev.RegistrationLimit != nil {
		count, err := activeRegistrationCount(tx, team.EventID)
		if err != nil {
			return nil, err
		}
		if count+len(team.Members) > *ev.RegistrationLimit {
			return nil, storage.ErrEventFull
		}
	}

	_, err = tx.Exec(`UPDATE teams SET status = 'complete' WHERE id = $1`, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete team: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(team.Members))
	for _, memberID := range team.Members {
		var regID string
		err = tx.QueryRow(`
			INSERT INTO registrations (id, event_id, participant_id, kind, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ON CONSTRAINT registrations_event_participant_key DO NOTHING
			RETURNING id`,
			uuid.New().String(), team.EventID, memberID,
			models.RegistrationKindTeam, models.RegistrationStatusRegistered, now,
		).Scan(&regID)
		if errors.Is(err, sql.ErrNoRows) {
			// Member already holds a registration; reuse it.
			err = tx.QueryRow(`
				SELECT id FROM registrations
				WHERE event_id = $1 AND participant_id = $2`,
				team.EventID, memberID,
			).Scan(&regID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to register team member: %w", err)
		}

		tk, err := issueTicketIdempotent(tx, regID)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *tk)
	}

	return tickets, nil
}

// issueTicketIdempotent inserts a ticket for the registration or returns
// the existing one, so a re-run of team completion never double-issues.
func issueTicketIdempotent(tx *sql.Tx, registrationID string) (*models.Ticket, error) {
	ticketID, err := token.NewTicketID()
	if err != nil {
		return nil, err
	}
	qrCode, err := token.NewQRCode()
	if err != nil {
		return nil, err
	}

	var tk models.Ticket
	err = tx.QueryRow(`
		INSERT INTO tickets (id, registration_id, qr_code, is_scanned, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		ON CONFLICT ON CONSTRAINT tickets_registration_id_key DO NOTHING
		RETURNING id, registration_id, qr_code, is_scanned, scanned_at, created_at`,
		ticketID, registrationID, qrCode, time.Now().UTC(),
	).Scan(&tk.ID, &tk.RegistrationID, &tk.QRCode, &tk.IsScanned, &tk.ScannedAt, &tk.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRow(`
			SELECT id, registration_id, qr_code, is_scanned, scanned_at, created_at
			FROM tickets
			WHERE registration_id = $1`, registrationID,
		).Scan(&tk.ID, &tk.RegistrationID, &tk.QRCode, &tk.IsScanned, &tk.ScannedAt, &tk.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}

	return &tk, nil
}

func (s *Storage) LeaveTeam(teamID, participantID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var leaderID string
	var status models.TeamStatus
	err = tx.QueryRow(`
		SELECT leader_id, status FROM teams WHERE id = $1 FOR UPDATE`, teamID,
	).Scan(&leaderID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrTeamNotFound
		}
		return fmt.Errorf("failed to lock team row: %w", err)
	}

	if status != models.TeamStatusForming {
		return storage.ErrTeamNotForming
	}
	if leaderID == participantID {
		return storage.ErrLeaderCannotLeave
	}

	res, err := tx.Exec(`
		DELETE FROM team_members WHERE team_id = $1 AND participant_id = $2`,
		teamID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotMember
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Storage) CancelTeam(teamID, leaderID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentLeader string
	var status models.TeamStatus
	err = tx.QueryRow(`
		SELECT leader_id, status FROM teams WHERE id = $1 FOR UPDATE`, teamID,
	).Scan(&currentLeader, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrTeamNotFound
		}
		return fmt.Errorf("failed to lock team row: %w", err)
	}

	if status != models.TeamStatusForming {
		return storage.ErrTeamNotForming
	}
	if currentLeader != leaderID {
		return storage.ErrNotLeader
	}

	_, err = tx.Exec(`UPDATE teams SET status = 'cancelled' WHERE id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to cancel team: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ticketRef is a ticket joined with its registration, resolved before the
// attendance insert.
type ticketRef struct {
	ticketID       string
	registrationID string
	eventID        string
	participantID  string
}

func (s *Storage) RecordScan(eventID, qrCode, staffID, remarks string) (*models.Attendance, error) {
	var ref ticketRef
	err := s.DB.QueryRow(`
		SELECT t.id, t.registration_id, r.event_id, r.participant_id
		FROM tickets t
		JOIN registrations r ON r.id = t.registration_id
		WHERE t.qr_code = $1`, qrCode,
	).Scan(&ref.ticketID, &ref.registrationID, &ref.eventID, &ref.participantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to resolve ticket: %w", err)
	}

	return s.recordAttendance(eventID, ref, staffID, models.AttendanceMethodScan, remarks)
}

func (s *Storage) RecordManual(eventID, participantID, staffID, remarks string) (*models.Attendance, error) {
	var ref ticketRef
	err := s.DB.QueryRow(`
		SELECT t.id, t.registration_id, r.event_id, r.participant_id
		FROM tickets t
		JOIN registrations r ON r.id = t.registration_id
		WHERE r.event_id = $1 AND r.participant_id = $2 AND r.status <> 'cancelled'`,
		eventID, participantID,
	).Scan(&ref.ticketID, &ref.registrationID, &ref.eventID, &ref.participantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to resolve ticket: %w", err)
	}

	return s.recordAttendance(eventID, ref, staffID, models.AttendanceMethodManual, remarks)
}

// recordAttendance is the single redemption path for both methods. The
// attendance insert is guarded by the unique ticket_id constraint; the
// losing side of a concurrent double scan reads back the winner's
// scanned_at. The ticket's is_scanned/scanned_at fields are refreshed in
// the same transaction but remain a cache: authorization is always the
// attendance row itself.
func (s *Storage) recordAttendance(eventID string, ref ticketRef, staffID string, method models.AttendanceMethod, remarks string) (*models.Attendance, error) {
	if ref.eventID != eventID {
		return nil, storage.ErrWrongEvent
	}

	att := models.Attendance{
		ID:             uuid.New().String(),
		EventID:        eventID,
		TicketID:       ref.ticketID,
		RegistrationID: ref.registrationID,
		ParticipantID:  ref.participantID,
		ScannedAt:      time.Now().UTC(),
		ScannedBy:      staffID,
		Method:         method,
		Remarks:        remarks,
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO attendance (id, event_id, ticket_id, registration_id, participant_id,
			scanned_at, scanned_by, method, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		att.ID, att.EventID, att.TicketID, att.RegistrationID, att.ParticipantID,
		att.ScannedAt, att.ScannedBy, att.Method, att.Remarks,
	)
	if err != nil {
		if isUniqueViolation(err, "attendance_ticket_id_key") {
			return nil, s.alreadyScanned(ref.ticketID)
		}
		return nil, fmt.Errorf("failed to insert attendance: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE tickets SET is_scanned = TRUE, scanned_at = $2 WHERE id = $1`,
		ref.ticketID, att.ScannedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket scan cache: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &att, nil
}

func (s *Storage) alreadyScanned(ticketID string) error {
	var scannedAt time.Time
	err := s.DB.QueryRow(`
		SELECT scanned_at FROM attendance WHERE ticket_id = $1`, ticketID,
	).Scan(&scannedAt)
	if err != nil {
		return fmt.Errorf("failed to read winning scan: %w", err)
	}

	return &storage.AlreadyScannedError{ScannedAt: scannedAt}
}
