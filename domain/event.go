package domain

import "time"

// ChangeEvent describes a row change pushed to interested read models. It is
// a convenience signal only: every consumer must also be correct when driven
// by plain polling.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Operation string    `json:"operation"`
	TeamID    string    `json:"team_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ChangeEvent) Touch() {
	if e == nil {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}
