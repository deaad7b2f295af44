package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for teams and team membership.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const teamColumns = `id, name, description, invite_code, created_by, created_at`

func scanTeam(row pgx.Row) (*Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.InviteCode, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a team with a freshly generated invite code and makes the
// creator its owner, in one transaction. On the astronomically unlikely
// invite-code collision the insert is retried with a new code.
func (s *Store) Create(ctx context.Context, name, createdBy string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	for attempt := 0; attempt < 3; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, err
		}

		team, err := s.createWithCode(ctx, name, code, createdBy)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		return team, nil
	}
	return nil, fmt.Errorf("creating team: invite code collisions exhausted retries")
}

func (s *Store) createWithCode(ctx context.Context, name, code, createdBy string) (*Team, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning create-team transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`INSERT INTO teams (name, invite_code, created_by)
		VALUES ($1, $2, $3)
		RETURNING %s`, teamColumns)

	team, err := scanTeam(tx.QueryRow(ctx, query, name, code, createdBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("inserting team: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, 'owner')`,
		team.ID, createdBy,
	); err != nil {
		return nil, fmt.Errorf("inserting owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create-team transaction: %w", err)
	}
	return team, nil
}

// GetByID retrieves a team by its primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)

	team, err := scanTeam(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return team, nil
}

// ListForUser returns the teams the user is a member of, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams
		WHERE id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		ORDER BY created_at DESC`, teamColumns)

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// JoinByCode adds the user to the team matching the already-normalized
// invite code. The unique membership constraint turns a duplicate join into
// ErrAlreadyMember.
func (s *Store) JoinByCode(ctx context.Context, inviteCode, userID string) (*Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE invite_code = $1`, teamColumns)

	team, err := scanTeam(s.pool.QueryRow(ctx, query, inviteCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("looking up team by invite code: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, 'member')`,
		team.ID, userID,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("inserting membership: %w", err)
	}

	return team, nil
}

// Members returns the team's members joined with user details, owners first.
func (s *Store) Members(ctx context.Context, teamID string) ([]*Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at,
		        COALESCE(u.email, ''), COALESCE(u.name, '')
		 FROM team_members tm
		 LEFT JOIN users u ON u.id = tm.user_id
		 WHERE tm.team_id = $1
		 ORDER BY tm.role = 'owner' DESC, tm.joined_at ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &m.Email, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the team.
func (s *Store) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
