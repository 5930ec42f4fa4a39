// Package notify is the boundary to the notification collaborator.
// Dispatch is fire-and-forget: a failure here is logged by the caller and
// never rolls back a committed registration or ticket.
package notify

import (
	"log/slog"

	"gatherly/internal/models"
)

type Notifier interface {
	RegistrationConfirmed(reg models.Registration, ticket models.Ticket) error
	TeamCompleted(team models.Team) error
}

// LogNotifier writes notifications to the log. Stand-in for a real
// delivery channel.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) RegistrationConfirmed(reg models.Registration, ticket models.Ticket) error {
	n.log.Info("notification: registration confirmed",
		slog.String("participant_id", reg.ParticipantID),
		slog.String("event_id", reg.EventID),
		slog.String("ticket_id", ticket.ID),
	)

	return nil
}

func (n *LogNotifier) TeamCompleted(team models.Team) error {
	n.log.Info("notification: team completed",
		slog.String("team_id", team.ID),
		slog.String("event_id", team.EventID),
		slog.Int("members", len(team.Members)),
	)

	return nil
}
