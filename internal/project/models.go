package project

import (
	"errors"
	"time"

	"github.com/evindahl/punchcard/internal/ticket"
)

// Project groups tickets under a team.
type Project struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"teamId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member links a user to a project with a role.
type Member struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"` // owner | member
	JoinedAt  time.Time `json:"joinedAt"`

	// Enrichment from the users table; empty when unavailable.
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Detail is a project with its tickets (including work logs) and members,
// the shape the project page renders from.
type Detail struct {
	Project
	Members []*Member          `json:"projectMembers"`
	Tickets []*ticket.WithLogs `json:"tickets"`
}

// UpdateInput carries optional project fields; nil means leave unchanged.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

var (
	// ErrProjectNotFound is returned when no project matches the id.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNameRequired is returned when a project is created or renamed
	// without a name.
	ErrNameRequired = errors.New("project name is required")
)
