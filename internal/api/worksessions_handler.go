package api

import (
	"errors"
	"net/http"

	"github.com/evindahl/punchcard/internal/auth"
	"github.com/evindahl/punchcard/internal/metrics"
	"github.com/evindahl/punchcard/internal/timeutil"
	"github.com/evindahl/punchcard/internal/tracking"
)

// workSessionsHandler groups work-session (clocking) HTTP handlers.
type workSessionsHandler struct {
	svc     *tracking.Service
	store   *tracking.Store
	metrics *metrics.Metrics
}

func newWorkSessionsHandler(svc *tracking.Service, store *tracking.Store, m *metrics.Metrics) *workSessionsHandler {
	return &workSessionsHandler{svc: svc, store: store, metrics: m}
}

// ClockIn handles POST /api/v1/work-sessions/clock-in.
func (h *workSessionsHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	var req struct {
		ProjectID *string `json:"projectId"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
			return
		}
	}

	session, elapsed, err := h.svc.ClockIn(r.Context(), u.ID, req.ProjectID)
	if err != nil {
		if errors.Is(err, tracking.ErrSessionActive) {
			writeError(w, http.StatusConflict, "session_active", "already clocked in")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to clock in")
		return
	}

	if h.metrics != nil {
		h.metrics.IncClockIn()
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session":          session,
		"elapsedSeconds":   elapsed,
		"elapsedFormatted": timeutil.FormatClock(elapsed),
	})
}

// ClockOut handles POST /api/v1/work-sessions/clock-out.
func (h *workSessionsHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	session, err := h.svc.ClockOut(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, tracking.ErrNoActiveSession) {
			writeError(w, http.StatusNotFound, "no_active_session", "not clocked in")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to clock out")
		return
	}

	var total int64
	if session.TotalDuration != nil {
		total = *session.TotalDuration
	}
	if h.metrics != nil {
		h.metrics.IncClockOut(total)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":        session,
		"totalFormatted": timeutil.FormatDurationHuman(total),
	})
}

// Active handles GET /api/v1/work-sessions/active. An idle user gets a null
// session, not an error.
func (h *workSessionsHandler) Active(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	session, elapsed, err := h.svc.ActiveSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to look up active session")
		return
	}

	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session":        nil,
			"elapsedSeconds": 0,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":          session,
		"elapsedSeconds":   elapsed,
		"elapsedFormatted": timeutil.FormatClock(elapsed),
	})
}

// List handles GET /api/v1/work-sessions with optional startDate/endDate
// filters.
func (h *workSessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_param", err.Error())
		return
	}
	// Widen the end date to the start of the next day; the store applies it
	// as an exclusive upper bound, so the whole end day is included.
	if !end.IsZero() {
		end = end.AddDate(0, 0, 1)
	}

	sessions, err := h.store.ListSessions(r.Context(), u.ID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list work sessions")
		return
	}
	if sessions == nil {
		sessions = []*tracking.WorkSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}
