package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for projects and project membership.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const projectColumns = `id, team_id, name, description, created_by, created_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a project under a team and makes the creator its owner, in
// one transaction.
func (s *Store) Create(ctx context.Context, teamID, name string, description *string, createdBy string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			description = &trimmed
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning create-project transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`INSERT INTO projects (team_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, projectColumns)

	p, err := scanProject(tx.QueryRow(ctx, query, teamID, name, description, createdBy))
	if err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, 'owner')`,
		p.ID, createdBy,
	); err != nil {
		return nil, fmt.Errorf("inserting owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create-project transaction: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by its primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	p, err := scanProject(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// ListByTeam returns a team's projects, newest first.
func (s *Store) ListByTeam(ctx context.Context, teamID string) ([]*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects
		WHERE team_id = $1
		ORDER BY created_at DESC`, projectColumns)

	rows, err := s.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update applies a partial update to a project and returns the updated row.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Project, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, ErrNameRequired
		}
		in.Name = &trimmed
	}

	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, projectColumns)

	p, err := scanProject(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project. Tickets and their work logs go with it via
// ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Members returns everyone who can be assigned work in the project: explicit
// project members plus members of the owning team who have not been added to
// the project yet. Owners sort first.
func (s *Store) Members(ctx context.Context, projectID string) ([]*Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at, m.email, m.name
		 FROM (
		     SELECT pm.id, pm.project_id, pm.user_id, pm.role, pm.joined_at,
		            COALESCE(u.email, '') AS email, COALESCE(u.name, '') AS name
		     FROM project_members pm
		     LEFT JOIN users u ON u.id = pm.user_id
		     WHERE pm.project_id = $1
		     UNION ALL
		     SELECT tm.id, p.id, tm.user_id, 'member', tm.joined_at,
		            COALESCE(u.email, ''), COALESCE(u.name, '')
		     FROM team_members tm
		     JOIN projects p ON p.team_id = tm.team_id AND p.id = $1
		     LEFT JOIN users u ON u.id = tm.user_id
		     WHERE tm.user_id NOT IN
		           (SELECT user_id FROM project_members WHERE project_id = $1)
		 ) m
		 ORDER BY m.role = 'owner' DESC, m.joined_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt, &m.Email, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning project member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// TeamID returns the owning team of a project.
func (s *Store) TeamID(ctx context.Context, projectID string) (string, error) {
	var teamID string
	err := s.pool.QueryRow(ctx, `SELECT team_id FROM projects WHERE id = $1`, projectID).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProjectNotFound
		}
		return "", fmt.Errorf("getting project team: %w", err)
	}
	return teamID, nil
}
