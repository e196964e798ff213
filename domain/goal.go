package domain

import (
	"math"
	"time"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a team-level objective. Assigned members live in a join table and
// are attached as a plain id set; linked tasks reference the goal by foreign
// key on the task side.
type Goal struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ShowNotes   bool       `json:"show_notes"`
	Status      GoalStatus `json:"status"`
	CategoryID  *string    `json:"category_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	AssignedMembers []string `json:"assigned_members,omitempty"`
}

func (g *Goal) IsCompleted() bool {
	return g != nil && g.Status == GoalCompleted
}

// Category groups goals inside a team. Deleting a category never deletes its
// goals; they just lose the reference.
type Category struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgressPercent computes the completion percentage for a set of linked
// tasks. Zero linked tasks means 0%, never a division error.
func ProgressPercent(doneCount, totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(doneCount) / float64(totalCount)))
}
