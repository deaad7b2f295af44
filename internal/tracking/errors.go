package tracking

import "errors"

var (
	// ErrSessionActive is returned by ClockIn when the user already has an
	// active work session.
	ErrSessionActive = errors.New("work session already active")

	// ErrNoActiveSession is returned by ClockOut when no session is active.
	ErrNoActiveSession = errors.New("no active work session")

	// ErrNotClockedIn is returned by StartTicket when the user has no active
	// work session to attach the timer to.
	ErrNotClockedIn = errors.New("must clock in before working on tickets")

	// ErrTicketNotFound is returned when the referenced ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketClosed is returned by StartTicket for tickets in the close state.
	ErrTicketClosed = errors.New("cannot start work on closed ticket")

	// ErrWorkLogActive is returned by StartTicket when an open work log
	// already exists for the ticket and user.
	ErrWorkLogActive = errors.New("work log already active for ticket")

	// ErrNoActiveWorkLog is returned by PauseTicket when no open work log
	// exists for the ticket and user.
	ErrNoActiveWorkLog = errors.New("no active work log for ticket")
)
