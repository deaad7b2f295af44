package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evindahl/punchcard/internal/tracking"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for tickets.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const ticketColumns = `id, project_id, title, description, status, priority,
	assigned_to_user_id, total_duration, last_worked_on, created_at, updated_at`

func scanTicket(row pgx.Row) (*Ticket, error) {
	var t Ticket
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.AssignedToUserID,
		&t.TotalDuration,
		&t.LastWorkedOn,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Ticket, error) {
	query := fmt.Sprintf(`INSERT INTO tickets
		(project_id, title, description, status, priority, assigned_to_user_id, total_duration)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING %s`, ticketColumns)

	t, err := scanTicket(s.pool.QueryRow(ctx, query,
		in.ProjectID, in.Title, in.Description, in.Status, in.Priority, in.AssignedToUserID))
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	return t, nil
}

// GetByID retrieves a ticket by its ID. Returns tracking.ErrTicketNotFound
// for unknown ids.
func (s *Store) GetByID(ctx context.Context, id string) (*Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id = $1`, ticketColumns)

	t, err := scanTicket(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// TicketStatus returns the status column only. It satisfies the lookup the
// tracking service needs without loading the whole row.
func (s *Store) TicketStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", tracking.ErrTicketNotFound
		}
		return "", fmt.Errorf("getting ticket status: %w", err)
	}
	return status, nil
}

// GetWithLogs retrieves a ticket together with its full work-log history,
// newest first.
func (s *Store) GetWithLogs(ctx context.Context, id string) (*WithLogs, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, ticket_id, user_id, work_session_id, start_time,
		        end_time, duration, description, created_at
		 FROM work_logs
		 WHERE ticket_id = $1
		 ORDER BY start_time DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("listing ticket work logs: %w", err)
	}
	defer rows.Close()

	logs := []*tracking.WorkLog{}
	for rows.Next() {
		var l tracking.WorkLog
		if err := rows.Scan(
			&l.ID, &l.TicketID, &l.UserID, &l.WorkSessionID, &l.StartTime,
			&l.EndTime, &l.Duration, &l.Description, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning work log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work logs: %w", err)
	}

	return &WithLogs{Ticket: *t, WorkLogs: logs}, nil
}

// ListByProject returns all tickets in a project, most recently worked first.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]*Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets
		WHERE project_id = $1
		ORDER BY last_worked_on DESC NULLS LAST, created_at DESC`, ticketColumns)
	return s.list(ctx, query, projectID)
}

// ListByProjectWithLogs returns a project's tickets together with each
// ticket's work-log history. Logs are fetched in one query and grouped in
// memory to avoid a query per ticket.
func (s *Store) ListByProjectWithLogs(ctx context.Context, projectID string) ([]*WithLogs, error) {
	tickets, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT wl.id, wl.ticket_id, wl.user_id, wl.work_session_id, wl.start_time,
		        wl.end_time, wl.duration, wl.description, wl.created_at
		 FROM work_logs wl
		 JOIN tickets t ON t.id = wl.ticket_id
		 WHERE t.project_id = $1
		 ORDER BY wl.start_time DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project work logs: %w", err)
	}
	defer rows.Close()

	logsByTicket := make(map[string][]*tracking.WorkLog)
	for rows.Next() {
		var l tracking.WorkLog
		if err := rows.Scan(
			&l.ID, &l.TicketID, &l.UserID, &l.WorkSessionID, &l.StartTime,
			&l.EndTime, &l.Duration, &l.Description, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning work log: %w", err)
		}
		logsByTicket[l.TicketID] = append(logsByTicket[l.TicketID], &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work logs: %w", err)
	}

	out := make([]*WithLogs, 0, len(tickets))
	for _, t := range tickets {
		logs := logsByTicket[t.ID]
		if logs == nil {
			logs = []*tracking.WorkLog{}
		}
		out = append(out, &WithLogs{Ticket: *t, WorkLogs: logs})
	}
	return out, nil
}

// ListByTeam returns all tickets across a team's projects.
func (s *Store) ListByTeam(ctx context.Context, teamID string) ([]*Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets
		WHERE project_id IN (SELECT id FROM projects WHERE team_id = $1)
		ORDER BY last_worked_on DESC NULLS LAST, created_at DESC`, ticketColumns)
	return s.list(ctx, query, teamID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Ticket, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Update applies a partial update to a ticket and returns the updated row.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Ticket, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.Priority != nil {
		setClauses = append(setClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *in.Priority)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}
	if in.AssignedToUserID != nil {
		setClauses = append(setClauses, fmt.Sprintf("assigned_to_user_id = $%d", argIdx))
		args = append(args, *in.AssignedToUserID)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, ticketColumns)

	t, err := scanTicket(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrTicketNotFound
		}
		return nil, fmt.Errorf("updating ticket: %w", err)
	}
	return t, nil
}
