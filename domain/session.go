package domain

import "time"

// Session represents a cached authentication session stored in Redis.
// TeamID tracks the user's currently selected team so the core operations
// receive their scope explicitly instead of reading ambient state.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TeamID    string    `json:"team_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// Scope is the caller context handed to every core operation: who is acting
// and which team the action applies to.
type Scope struct {
	UserID string
	TeamID string
}

func (s Scope) Valid() bool {
	return s.UserID != "" && s.TeamID != ""
}
