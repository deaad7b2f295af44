package tracking

import "time"

// WorkSession is one clock-in/clock-out interval for a user. At most one
// active session exists per user; the schema enforces this with a partial
// unique index.
type WorkSession struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	ProjectID     *string    `json:"projectId"`
	ClockInTime   time.Time  `json:"clockInTime"`
	ClockOutTime  *time.Time `json:"clockOutTime"`
	TotalDuration *int64     `json:"totalDuration"` // seconds, set on clock-out
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// WorkLog is one start/pause interval of effort against a ticket, nested in
// a work session. A nil EndTime marks the running timer; Duration is set
// exactly once when the log is closed.
type WorkLog struct {
	ID            string     `json:"id"`
	TicketID      string     `json:"ticketId"`
	UserID        string     `json:"userId"`
	WorkSessionID string     `json:"workSessionId"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	Duration      *int64     `json:"duration"` // seconds
	Description   *string    `json:"description"`
	CreatedAt     time.Time  `json:"createdAt"`
}
