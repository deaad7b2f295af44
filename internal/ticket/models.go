package ticket

import (
	"errors"
	"strings"
	"time"

	"github.com/evindahl/punchcard/internal/tracking"
)

// Ticket is a unit of work in a project. TotalDuration accrues as work logs
// close; LastWorkedOn tracks the latest closed log's end time.
type Ticket struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"projectId"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Status           string     `json:"status"`   // open | active | close
	Priority         string     `json:"priority"` // low | medium | high | critical
	AssignedToUserID string     `json:"assignedToUserId"`
	TotalDuration    int64      `json:"totalDuration"` // seconds
	LastWorkedOn     *time.Time `json:"lastWorkedOn"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// WithLogs is a ticket carrying its full work-log history, newest first.
type WithLogs struct {
	Ticket
	WorkLogs []*tracking.WorkLog `json:"workLogs"`
}

// CreateInput holds the fields required to create a ticket.
type CreateInput struct {
	ProjectID        string  `json:"projectId"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Priority         string  `json:"priority"`
	Status           string  `json:"status"`
	AssignedToUserID string  `json:"assignedToUserId"`
}

// UpdateInput holds the fields that can be updated on a ticket. Only non-nil
// fields are applied.
type UpdateInput struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Priority         *string `json:"priority"`
	Status           *string `json:"status"`
	AssignedToUserID *string `json:"assignedToUserId"`
}

var (
	ErrProjectRequired  = errors.New("projectId is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrAssigneeRequired = errors.New("assignedToUserId is required")
	ErrPriorityInvalid  = errors.New("priority must be one of: low, medium, high, critical")
	ErrStatusInvalid    = errors.New("status must be one of: open, active, close")
)

var validPriorities = map[string]bool{"low": true, "medium": true, "high": true, "critical": true}

var validStatuses = map[string]bool{
	tracking.TicketStatusOpen:   true,
	tracking.TicketStatusActive: true,
	tracking.TicketStatusClose:  true,
}

// ValidateCreate checks required fields and normalizes defaults: priority
// falls back to medium and status to open.
func ValidateCreate(in *CreateInput) error {
	if strings.TrimSpace(in.ProjectID) == "" {
		return ErrProjectRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.AssignedToUserID) == "" {
		return ErrAssigneeRequired
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	if !validPriorities[in.Priority] {
		return ErrPriorityInvalid
	}
	if in.Status == "" {
		in.Status = tracking.TicketStatusOpen
	}
	if !validStatuses[in.Status] {
		return ErrStatusInvalid
	}
	return nil
}

// ValidateUpdate checks the provided fields of a partial update.
func ValidateUpdate(in *UpdateInput) error {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return ErrTitleRequired
		}
		in.Title = &trimmed
	}
	if in.Priority != nil && !validPriorities[*in.Priority] {
		return ErrPriorityInvalid
	}
	if in.Status != nil && !validStatuses[*in.Status] {
		return ErrStatusInvalid
	}
	return nil
}
