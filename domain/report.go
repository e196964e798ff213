package domain

import "time"

// Report is a leader-created work item assigned to a specific member.
type Report struct {
	ID             string    `json:"id"`
	TeamID         string    `json:"team_id"`
	Title          string    `json:"title"`
	AssignedUserID string    `json:"assigned_user_id"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
