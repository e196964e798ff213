package domain

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskOnHold     TaskStatus = "on_hold"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskOnHold, TaskDone:
		return true
	}
	return false
}

// Task represents a user-owned activity item inside a team.
//
// Recurring tasks come in two shapes: a template (IsRecurring set,
// SourceTaskID empty) that never shows up in task lists, and per-period
// instances spawned from it (SourceTaskID and Period set). CompletedAt is
// non-nil exactly when Status is done.
type Task struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	TeamID            string     `json:"team_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Status            TaskStatus `json:"status"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	SharedToDashboard bool       `json:"shared_to_dashboard"`
	SortOrder         int        `json:"sort_order"`
	LinkedGoalID      *string    `json:"linked_goal_id,omitempty"`
	IsRecurring       bool       `json:"is_recurring"`
	SourceTaskID      *string    `json:"source_task_id,omitempty"`
	Period            string     `json:"period,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Assignees             []string `json:"assignees,omitempty"`
	LinkedPersonalGoalIDs []string `json:"linked_personal_goal_ids,omitempty"`
}

func (t *Task) IsDone() bool {
	return t != nil && t.Status == TaskDone
}

// IsTemplate reports whether the task is a recurring template, which is
// excluded from every task list.
func (t *Task) IsTemplate() bool {
	return t != nil && t.IsRecurring && t.SourceTaskID == nil
}

// IsInstance reports whether the task was materialized from a template.
func (t *Task) IsInstance() bool {
	return t != nil && t.SourceTaskID != nil
}
