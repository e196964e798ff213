package domain

import "time"

// Note is a free-form text record, optionally linked to one of the author's
// tasks and optionally shared to the team dashboard.
type Note struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	TeamID            string    `json:"team_id"`
	Title             string    `json:"title"`
	Content           string    `json:"content,omitempty"`
	LinkedTaskID      *string   `json:"linked_task_id,omitempty"`
	SharedToDashboard bool      `json:"shared_to_dashboard"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
