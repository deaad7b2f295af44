package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads the enriched work-log rows the aggregation engine consumes.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListEnriched returns the user's work logs in [start, end), joined with
// ticket and project attribution, ordered oldest first. It satisfies
// WorkLogSource.
func (s *Store) ListEnriched(ctx context.Context, userID string, start, end time.Time) ([]WorkLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT wl.id, wl.ticket_id, wl.user_id, wl.work_session_id,
		        wl.start_time, wl.end_time, wl.duration, wl.description,
		        t.title, p.id, p.name
		 FROM work_logs wl
		 JOIN tickets t ON t.id = wl.ticket_id
		 JOIN projects p ON p.id = t.project_id
		 WHERE wl.user_id = $1
		   AND wl.start_time >= $2
		   AND wl.start_time < $3
		 ORDER BY wl.start_time ASC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing enriched work logs: %w", err)
	}
	defer rows.Close()

	logs := []WorkLog{}
	for rows.Next() {
		var l WorkLog
		if err := rows.Scan(
			&l.ID, &l.TicketID, &l.UserID, &l.WorkSessionID,
			&l.StartTime, &l.EndTime, &l.Duration, &l.Description,
			&l.TicketTitle, &l.ProjectID, &l.ProjectName,
		); err != nil {
			return nil, fmt.Errorf("scanning enriched work log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
