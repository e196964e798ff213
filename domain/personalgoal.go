package domain

import "time"

type PersonalGoalStatus string

const (
	PersonalGoalActive    PersonalGoalStatus = "active"
	PersonalGoalCompleted PersonalGoalStatus = "completed"
)

// PersonalGoal is a yearly objective a member keeps for themselves within a
// team. It can link to team goals and to the member's own tasks, both via
// join tables.
type PersonalGoal struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	TeamID      string             `json:"team_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Year        int                `json:"year"`
	Status      PersonalGoalStatus `json:"status"`
	SortOrder   int                `json:"sort_order"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	LinkedGoalIDs []string `json:"linked_goal_ids,omitempty"`
	LinkedTasks   []Task   `json:"linked_tasks,omitempty"`
}

// Progress returns the completion percentage over the attached linked tasks.
func (g *PersonalGoal) Progress() int {
	if g == nil {
		return 0
	}
	done := 0
	for i := range g.LinkedTasks {
		if g.LinkedTasks[i].Status == TaskDone {
			done++
		}
	}
	return ProgressPercent(done, len(g.LinkedTasks))
}
