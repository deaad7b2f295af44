package api

import (
	"errors"
	"net/http"

	"github.com/evindahl/punchcard/internal/auth"
	"github.com/evindahl/punchcard/internal/project"
	"github.com/evindahl/punchcard/internal/team"
	"github.com/evindahl/punchcard/internal/ticket"
	"github.com/go-chi/chi/v5"
)

// teamsHandler groups team HTTP handlers.
type teamsHandler struct {
	teams    *team.Store
	projects *project.Store
	tickets  *ticket.Store
}

func newTeamsHandler(teams *team.Store, projects *project.Store, tickets *ticket.Store) *teamsHandler {
	return &teamsHandler{teams: teams, projects: projects, tickets: tickets}
}

// requireMember checks that the user belongs to the team, writing the
// appropriate error response when they do not. Returns false when the
// request has been handled.
func (h *teamsHandler) requireMember(w http.ResponseWriter, r *http.Request, teamID, userID string) bool {
	ok, err := h.teams.IsMember(r.Context(), teamID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check membership")
		return false
	}
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden", "not a member of this team")
		return false
	}
	return true
}

// List handles GET /api/v1/teams, the caller's teams only.
func (h *teamsHandler) List(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	teams, err := h.teams.ListForUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}
	if teams == nil {
		teams = []*team.Team{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// Create handles POST /api/v1/teams.
func (h *teamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.Create(r.Context(), req.Name, u.ID)
	if err != nil {
		if errors.Is(err, team.ErrNameRequired) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "team name is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create team")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"team": t})
}

// Join handles POST /api/v1/teams/join. The invite code is normalized before
// lookup so formatting and case differences do not matter.
func (h *teamsHandler) Join(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var req struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	code, err := team.NormalizeInviteCode(req.InviteCode)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid invite code format")
		return
	}

	t, err := h.teams.JoinByCode(r.Context(), code, u.ID)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrTeamNotFound):
			writeError(w, http.StatusNotFound, "not_found", "no team with that invite code")
		case errors.Is(err, team.ErrAlreadyMember):
			writeError(w, http.StatusConflict, "already_member", "already a member of this team")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to join team")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// Get handles GET /api/v1/teams/{id}.
func (h *teamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if !h.requireMember(w, r, id, u.ID) {
		return
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// Members handles GET /api/v1/teams/{id}/members.
func (h *teamsHandler) Members(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if !h.requireMember(w, r, id, u.ID) {
		return
	}

	members, err := h.teams.Members(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// ListProjects handles GET /api/v1/teams/{id}/projects.
func (h *teamsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if !h.requireMember(w, r, id, u.ID) {
		return
	}

	projects, err := h.projects.ListByTeam(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// CreateProject handles POST /api/v1/teams/{id}/projects.
func (h *teamsHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if !h.requireMember(w, r, id, u.ID) {
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.projects.Create(r.Context(), id, req.Name, req.Description, u.ID)
	if err != nil {
		if errors.Is(err, project.ErrNameRequired) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "project name is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"project": p})
}

// ListTickets handles GET /api/v1/teams/{id}/tickets, all tickets across the
// team's projects.
func (h *teamsHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if !h.requireMember(w, r, id, u.ID) {
		return
	}

	tickets, err := h.tickets.ListByTeam(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tickets")
		return
	}
	if tickets == nil {
		tickets = []*ticket.Ticket{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}
