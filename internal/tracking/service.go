package tracking

import (
	"context"
	"strings"
	"time"
)

// Ticket status values as stored on the tickets table.
const (
	TicketStatusOpen   = "open"
	TicketStatusActive = "active"
	TicketStatusClose  = "close"
)

// SessionStore persists work sessions. Implementations must enforce the
// one-active-session-per-user invariant atomically (conditional writes, not
// read-then-write), since multiple server instances share the store.
type SessionStore interface {
	// InsertActiveSession creates an active session clocked in at start.
	// Returns ErrSessionActive when the user already has one.
	InsertActiveSession(ctx context.Context, userID string, projectID *string, start time.Time) (*WorkSession, error)

	// GetActiveSession returns the user's active session, or nil when idle.
	GetActiveSession(ctx context.Context, userID string) (*WorkSession, error)

	// CloseSession clocks out the given session if it is still active.
	// Returns ErrNoActiveSession when it was already closed.
	CloseSession(ctx context.Context, sessionID string, clockOut time.Time, totalDuration int64) (*WorkSession, error)
}

// WorkLogStore persists work logs. Start and finish are single atomic writes
// covering both the log row and the ticket row.
type WorkLogStore interface {
	// StartWork inserts an open work log and marks the ticket active in one
	// transaction. Returns ErrWorkLogActive when an open log already exists
	// for the ticket and user.
	StartWork(ctx context.Context, ticketID, userID, workSessionID string, start time.Time) (*WorkLog, error)

	// FindOpenLog returns the running work log for the ticket and user, or
	// nil when there is none. Implementations also honor the legacy
	// convention of marking a running log with end_time == start_time.
	FindOpenLog(ctx context.Context, ticketID, userID string) (*WorkLog, error)

	// FinishWork closes the work log and, in the same transaction, sets the
	// ticket back to open, adds the duration to its running total, and
	// advances its last-worked-on timestamp.
	FinishWork(ctx context.Context, logID, ticketID string, end time.Time, duration int64, description *string) (*WorkLog, error)
}

// TicketReader exposes the ticket lookup StartTicket needs.
type TicketReader interface {
	// TicketStatus returns the ticket's status, or ErrTicketNotFound.
	TicketStatus(ctx context.Context, ticketID string) (string, error)
}

// Service implements the work-session and ticket-timer state machines. Per
// user the session state is IDLE or CLOCKED_IN; per (ticket, user) the timer
// state is derived from the existence of an open work log, never stored.
type Service struct {
	sessions SessionStore
	logs     WorkLogStore
	tickets  TicketReader
	now      func() time.Time // injectable clock for testing
}

// NewService creates the tracking service.
func NewService(sessions SessionStore, logs WorkLogStore, tickets TicketReader) *Service {
	return &Service{
		sessions: sessions,
		logs:     logs,
		tickets:  tickets,
		now:      time.Now,
	}
}

// ClockIn starts a work session for the user. Fails with ErrSessionActive if
// one is already running. Elapsed time of a fresh session is always zero.
func (s *Service) ClockIn(ctx context.Context, userID string, projectID *string) (*WorkSession, int64, error) {
	session, err := s.sessions.InsertActiveSession(ctx, userID, projectID, s.now())
	if err != nil {
		return nil, 0, err
	}
	return session, 0, nil
}

// ClockOut ends the user's active session, computing the total duration as
// whole elapsed seconds. Fails with ErrNoActiveSession when idle.
func (s *Service) ClockOut(ctx context.Context, userID string) (*WorkSession, error) {
	session, err := s.sessions.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	now := s.now()
	total := int64(now.Sub(session.ClockInTime) / time.Second)
	if total < 0 {
		total = 0
	}

	return s.sessions.CloseSession(ctx, session.ID, now, total)
}

// ActiveSession returns the user's active session and its elapsed seconds.
// An idle user yields (nil, 0, nil); that is not an error.
func (s *Service) ActiveSession(ctx context.Context, userID string) (*WorkSession, int64, error) {
	session, err := s.sessions.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if session == nil {
		return nil, 0, nil
	}

	elapsed := int64(s.now().Sub(session.ClockInTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return session, elapsed, nil
}

// StartTicket opens a work log against the ticket, linked to the user's
// active work session, and marks the ticket active. The caller is
// responsible for pausing any other running ticket first; this method does
// not auto-pause.
func (s *Service) StartTicket(ctx context.Context, ticketID, userID string) (*WorkLog, error) {
	session, err := s.sessions.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotClockedIn
	}

	status, err := s.tickets.TicketStatus(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if status == TicketStatusClose {
		return nil, ErrTicketClosed
	}

	return s.logs.StartWork(ctx, ticketID, userID, session.ID, s.now())
}

// PauseTicket closes the running work log for the ticket and user. The end
// time is forced to at least one second past the start so closed durations
// are never zero or negative, and the duration is truncated toward zero to
// stay bit-for-bit consistent with the database's integer cast of
// EXTRACT(EPOCH FROM end_time - start_time).
func (s *Service) PauseTicket(ctx context.Context, ticketID, userID string, description *string) (*WorkLog, error) {
	log, err := s.logs.FindOpenLog(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrNoActiveWorkLog
	}

	end := s.now()
	if !end.After(log.StartTime) {
		end = log.StartTime.Add(time.Second)
	}

	// Integer division of milliseconds truncates toward zero, matching the
	// INTEGER cast the database applies when it recomputes the duration.
	durationSeconds := end.Sub(log.StartTime).Milliseconds() / 1000

	return s.logs.FinishWork(ctx, log.ID, ticketID, end, durationSeconds, trimDescription(description))
}

// trimDescription normalizes an optional description: surrounding whitespace
// is dropped and blank strings collapse to nil.
func trimDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
