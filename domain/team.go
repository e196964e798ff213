package domain

import "time"

// MemberRole distinguishes the team leader from ordinary members. One leader
// per team is a convention, not a stored invariant.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Team owns goals, categories and memberships.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership ties a profile to a team with a role.
type Membership struct {
	TeamID   string     `json:"team_id"`
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

func (m *Membership) IsLeader() bool {
	return m != nil && m.Role == RoleLeader
}

// Member is a membership joined with its profile, as dashboards render it.
type Member struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation lets a leader invite an email address; a matching signup joins
// the team automatically.
type Invitation struct {
	ID        string           `json:"id"`
	TeamID    string           `json:"team_id"`
	Email     string           `json:"email"`
	InvitedBy string           `json:"invited_by"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
