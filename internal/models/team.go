package models

import "time"

type TeamStatus string

const (
	TeamStatusForming   TeamStatus = "forming"
	TeamStatusComplete  TeamStatus = "complete"
	TeamStatusCancelled TeamStatus = "cancelled"
)

// Team is a forming cohort of participants targeting one event. Status
// transitions are one-way: forming -> complete, forming -> cancelled.
type Team struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	LeaderID   string     `json:"leader_id"`
	Name       string     `json:"name"`
	InviteCode string     `json:"invite_code"`
	MaxSize    int        `json:"max_size"`
	Members    []string   `json:"members"` // leader first, join order after
	Status     TeamStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsFull reports whether the team has no free seats left.
func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MaxSize
}

// HasMember reports whether the participant is already on the team.
func (t *Team) HasMember(participantID string) bool {
	for _, m := range t.Members {
		if m == participantID {
			return true
		}
	}
	return false
}
