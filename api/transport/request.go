package transport

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SelectTeamRequest struct {
	TeamID string `json:"team_id"`
}

type TeamRequest struct {
	Name string `json:"name"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type GoalRequest struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Notes           string   `json:"notes"`
	ShowNotes       bool     `json:"show_notes"`
	Status          string   `json:"status"`
	CategoryID      *string  `json:"category_id"`
	DueDate         string   `json:"due_date"`
	AssignedMembers []string `json:"assigned_members"`
}

type CategoryRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PersonalGoalRequest struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Year          int      `json:"year"`
	Status        string   `json:"status"`
	LinkedGoalIDs []string `json:"linked_goal_ids"`
}

type TaskRequest struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Notes                 string   `json:"notes"`
	Status                string   `json:"status"`
	DueDate               string   `json:"due_date"`
	SharedToDashboard     bool     `json:"shared_to_dashboard"`
	LinkedGoalID          *string  `json:"linked_goal_id"`
	IsRecurring           bool     `json:"is_recurring"`
	Assignees             []string `json:"assignees"`
	LinkedPersonalGoalIDs []string `json:"linked_personal_goal_ids"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type LinkSetRequest struct {
	IDs []string `json:"ids"`
}

type NoteRequest struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Content           string  `json:"content"`
	LinkedTaskID      *string `json:"linked_task_id"`
	SharedToDashboard bool    `json:"shared_to_dashboard"`
}

type ReportRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	AssignedUserID string `json:"assigned_user_id"`
}
