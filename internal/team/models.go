package team

import (
	"errors"
	"time"
)

// Team is the top-level organizational container. Members join through the
// invite code.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	InviteCode  string    `json:"inviteCode"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member links a user to a team with a role.
type Member struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"teamId"`
	UserID   string    `json:"userId"`
	Role     string    `json:"role"` // owner | member
	JoinedAt time.Time `json:"joinedAt"`

	// Enrichment from the users table; empty when unavailable.
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

var (
	// ErrTeamNotFound is returned when no team matches the id or invite code.
	ErrTeamNotFound = errors.New("team not found")

	// ErrAlreadyMember is returned when the user already belongs to the team.
	ErrAlreadyMember = errors.New("already a member of this team")

	// ErrNameRequired is returned when a team is created without a name.
	ErrNameRequired = errors.New("team name is required")

	// ErrInvalidInviteCode is returned for codes that do not normalize to
	// exactly six alphanumeric characters.
	ErrInvalidInviteCode = errors.New("invalid invite code format")
)
