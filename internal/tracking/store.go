package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for work sessions and work logs. It
// implements SessionStore and WorkLogStore on top of a shared pgx pool. The
// uniqueness invariants (one active session per user, one open log per
// ticket and user) are enforced by partial unique indexes, so concurrent
// writers race on the insert rather than on a read-then-write.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const sessionColumns = `id, user_id, project_id, clock_in_time, clock_out_time,
	total_duration, is_active, created_at`

const workLogColumns = `id, ticket_id, user_id, work_session_id, start_time,
	end_time, duration, description, created_at`

func scanSession(row pgx.Row) (*WorkSession, error) {
	var s WorkSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ProjectID,
		&s.ClockInTime,
		&s.ClockOutTime,
		&s.TotalDuration,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanWorkLog(row pgx.Row) (*WorkLog, error) {
	var l WorkLog
	err := row.Scan(
		&l.ID,
		&l.TicketID,
		&l.UserID,
		&l.WorkSessionID,
		&l.StartTime,
		&l.EndTime,
		&l.Duration,
		&l.Description,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// InsertActiveSession creates an active work session. The partial unique
// index work_sessions_one_active_per_user turns a concurrent duplicate into
// ErrSessionActive.
func (s *Store) InsertActiveSession(ctx context.Context, userID string, projectID *string, start time.Time) (*WorkSession, error) {
	query := fmt.Sprintf(`INSERT INTO work_sessions (user_id, project_id, clock_in_time, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING %s`, sessionColumns)

	session, err := scanSession(s.pool.QueryRow(ctx, query, userID, projectID, start))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("inserting work session: %w", err)
	}
	return session, nil
}

// GetActiveSession returns the user's active session, or nil when idle.
func (s *Store) GetActiveSession(ctx context.Context, userID string) (*WorkSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_sessions
		WHERE user_id = $1 AND is_active`, sessionColumns)

	session, err := scanSession(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting active work session: %w", err)
	}
	return session, nil
}

// CloseSession clocks out a session, guarded on it still being active so a
// concurrent clock-out cannot close it twice.
func (s *Store) CloseSession(ctx context.Context, sessionID string, clockOut time.Time, totalDuration int64) (*WorkSession, error) {
	query := fmt.Sprintf(`UPDATE work_sessions
		SET clock_out_time = $2, total_duration = $3, is_active = FALSE
		WHERE id = $1 AND is_active
		RETURNING %s`, sessionColumns)

	session, err := scanSession(s.pool.QueryRow(ctx, query, sessionID, clockOut, totalDuration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("closing work session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions ordered by clock-in descending.
// Zero time bounds are ignored.
func (s *Store) ListSessions(ctx context.Context, userID string, start, end time.Time) ([]*WorkSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_sessions WHERE user_id = $1`, sessionColumns)
	args := []any{userID}

	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND clock_in_time >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND clock_in_time < $%d", len(args))
	}
	query += " ORDER BY clock_in_time DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*WorkSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// StartWork inserts an open work log and marks the ticket active in one
// transaction. The partial unique index work_logs_one_open_per_ticket_user
// rejects a second open log for the same ticket and user.
func (s *Store) StartWork(ctx context.Context, ticketID, userID, workSessionID string, start time.Time) (*WorkLog, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning start-work transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`INSERT INTO work_logs (ticket_id, user_id, work_session_id, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, workLogColumns)

	log, err := scanWorkLog(tx.QueryRow(ctx, query, ticketID, userID, workSessionID, start))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrWorkLogActive
		}
		return nil, fmt.Errorf("inserting work log: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tickets SET status = $2, updated_at = NOW() WHERE id = $1`,
		ticketID, TicketStatusActive,
	); err != nil {
		return nil, fmt.Errorf("marking ticket active: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing start-work transaction: %w", err)
	}
	return log, nil
}

// FindOpenLog returns the most recent running work log for the ticket and
// user, or nil when none exists. When no NULL end_time row is found it falls
// back to the legacy convention of a recent log stored with end_time equal
// to start_time.
func (s *Store) FindOpenLog(ctx context.Context, ticketID, userID string) (*WorkLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_logs
		WHERE ticket_id = $1 AND user_id = $2 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`, workLogColumns)

	log, err := scanWorkLog(s.pool.QueryRow(ctx, query, ticketID, userID))
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("finding open work log: %w", err)
	}

	return s.findLegacyOpenLog(ctx, ticketID, userID)
}

// findLegacyOpenLog is a compatibility branch: historical data marked a
// running log with end_time == start_time instead of NULL. Only the 5 most
// recent logs are considered, as the original system did. New writes never
// produce such rows; the remaining ones are a candidate for a one-time
// migration.
func (s *Store) findLegacyOpenLog(ctx context.Context, ticketID, userID string) (*WorkLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_logs
		WHERE ticket_id = $1 AND user_id = $2
		ORDER BY start_time DESC
		LIMIT 5`, workLogColumns)

	rows, err := s.pool.Query(ctx, query, ticketID, userID)
	if err != nil {
		return nil, fmt.Errorf("finding legacy open work log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		log, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning legacy work log: %w", err)
		}
		if log.EndTime != nil && log.EndTime.Equal(log.StartTime) {
			return log, nil
		}
	}
	return nil, rows.Err()
}

// FinishWork closes the work log and settles the ticket in one transaction:
// status back to open, duration added to the running total, last_worked_on
// advanced to the log's end time if later.
func (s *Store) FinishWork(ctx context.Context, logID, ticketID string, end time.Time, duration int64, description *string) (*WorkLog, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning finish-work transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`UPDATE work_logs
		SET end_time = $2, duration = $3, description = $4
		WHERE id = $1
		RETURNING %s`, workLogColumns)

	log, err := scanWorkLog(tx.QueryRow(ctx, query, logID, end, duration, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveWorkLog
		}
		return nil, fmt.Errorf("closing work log: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tickets
		 SET status = $2,
		     total_duration = total_duration + $3,
		     last_worked_on = GREATEST(COALESCE(last_worked_on, $4), $4),
		     updated_at = NOW()
		 WHERE id = $1`,
		ticketID, TicketStatusOpen, duration, end,
	); err != nil {
		return nil, fmt.Errorf("settling ticket totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing finish-work transaction: %w", err)
	}
	return log, nil
}
