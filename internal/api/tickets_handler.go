package api

import (
	"errors"
	"net/http"

	"github.com/evindahl/punchcard/internal/auth"
	"github.com/evindahl/punchcard/internal/metrics"
	"github.com/evindahl/punchcard/internal/ticket"
	"github.com/evindahl/punchcard/internal/timeutil"
	"github.com/evindahl/punchcard/internal/tracking"
	"github.com/go-chi/chi/v5"
)

// ticketsHandler groups ticket HTTP handlers, including the timer endpoints.
type ticketsHandler struct {
	store   *ticket.Store
	svc     *tracking.Service
	metrics *metrics.Metrics
}

func newTicketsHandler(store *ticket.Store, svc *tracking.Service, m *metrics.Metrics) *ticketsHandler {
	return &ticketsHandler{store: store, svc: svc, metrics: m}
}

// Create handles POST /api/v1/tickets.
func (h *ticketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ticket.CreateInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if err := ticket.ValidateCreate(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	t, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create ticket")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ticket": t})
}

// Get handles GET /api/v1/tickets/{id}, returning the ticket with its full
// work-log history.
func (h *ticketsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.store.GetWithLogs(r.Context(), id)
	if err != nil {
		if errors.Is(err, tracking.ErrTicketNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get ticket")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticket": t})
}

// Update handles PUT /api/v1/tickets/{id}.
func (h *ticketsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in ticket.UpdateInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if err := ticket.ValidateUpdate(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	t, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, tracking.ErrTicketNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update ticket")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticket": t})
}

// Start handles POST /api/v1/tickets/{id}/start. The caller must be clocked
// in and the ticket must not be closed.
func (h *ticketsHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	log, err := h.svc.StartTicket(r.Context(), id, u.ID)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrNotClockedIn):
			writeError(w, http.StatusBadRequest, "must_clock_in", "must be clocked in to start a ticket")
		case errors.Is(err, tracking.ErrTicketNotFound):
			writeError(w, http.StatusNotFound, "not_found", "ticket not found")
		case errors.Is(err, tracking.ErrTicketClosed):
			writeError(w, http.StatusBadRequest, "ticket_closed", "cannot start work on a closed ticket")
		case errors.Is(err, tracking.ErrWorkLogActive):
			writeError(w, http.StatusConflict, "work_log_active", "a work log is already running for this ticket")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to start work")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.IncTimerStart()
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"workLog": log})
}

// Pause handles POST /api/v1/tickets/{id}/pause. The closed work log is
// returned together with the refreshed ticket so clients see the updated
// total and status in one round trip.
func (h *ticketsHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := auth.UserFromContext(r.Context())

	var req struct {
		Description *string `json:"description"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
			return
		}
	}

	log, err := h.svc.PauseTicket(r.Context(), id, u.ID, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrNoActiveWorkLog):
			writeError(w, http.StatusNotFound, "no_active_work_log", "no running work log for this ticket")
		case errors.Is(err, tracking.ErrTicketNotFound):
			writeError(w, http.StatusNotFound, "not_found", "ticket not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to pause work")
		}
		return
	}

	var d int64
	if log.Duration != nil {
		d = *log.Duration
	}
	if h.metrics != nil {
		h.metrics.IncTimerPause(d)
	}
	durationFormatted := timeutil.FormatDurationHuman(d)

	t, err := h.store.GetWithLogs(r.Context(), id)
	if err != nil {
		// The pause itself succeeded; degrade to returning just the log.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"workLog":           log,
			"durationFormatted": durationFormatted,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workLog":           log,
		"durationFormatted": durationFormatted,
		"ticket":            t,
	})
}
