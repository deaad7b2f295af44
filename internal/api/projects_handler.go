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

// projectsHandler groups project HTTP handlers.
type projectsHandler struct {
	projects *project.Store
	teams    *team.Store
	tickets  *ticket.Store
}

func newProjectsHandler(projects *project.Store, teams *team.Store, tickets *ticket.Store) *projectsHandler {
	return &projectsHandler{projects: projects, teams: teams, tickets: tickets}
}

// loadForMember fetches the project and verifies the caller belongs to its
// team. Returns nil when the request has already been handled.
func (h *projectsHandler) loadForMember(w http.ResponseWriter, r *http.Request, projectID, userID string) *project.Project {
	p, err := h.projects.GetByID(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get project")
		return nil
	}

	ok, err := h.teams.IsMember(r.Context(), p.TeamID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check membership")
		return nil
	}
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden", "not a member of this team")
		return nil
	}
	return p
}

// Get handles GET /api/v1/projects/{id}: the project, its members, and its
// tickets with work logs, in one payload.
func (h *projectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	p := h.loadForMember(w, r, id, u.ID)
	if p == nil {
		return
	}

	members, err := h.projects.Members(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list project members")
		return
	}

	tickets, err := h.tickets.ListByProjectWithLogs(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tickets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project": project.Detail{
			Project: *p,
			Members: members,
			Tickets: tickets,
		},
	})
}

// Update handles PUT /api/v1/projects/{id}.
func (h *projectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if h.loadForMember(w, r, id, u.ID) == nil {
		return
	}

	var in project.UpdateInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.projects.Update(r.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrNameRequired):
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "project name is required")
		case errors.Is(err, project.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "not_found", "project not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update project")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"project": p})
}

// Delete handles DELETE /api/v1/projects/{id}.
func (h *projectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if h.loadForMember(w, r, id, u.ID) == nil {
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Members handles GET /api/v1/projects/{id}/members.
func (h *projectsHandler) Members(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	if h.loadForMember(w, r, id, u.ID) == nil {
		return
	}

	members, err := h.projects.Members(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list project members")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}
