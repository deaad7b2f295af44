package api

import (
	"net/http"
	"time"

	"github.com/evindahl/punchcard/internal/auth"
	"github.com/evindahl/punchcard/internal/stats"
)

// statsHandler serves the statistics report and the raw work-log listing.
type statsHandler struct {
	svc  *stats.Service
	logs stats.WorkLogSource
}

func newStatsHandler(svc *stats.Service, logs stats.WorkLogSource) *statsHandler {
	return &statsHandler{svc: svc, logs: logs}
}

// GetStatistics handles GET /api/v1/statistics with optional
// startDate/endDate parameters. Defaults are applied by the service.
func (h *statsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_param", err.Error())
		return
	}

	report, err := h.svc.Report(r.Context(), u.ID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to build statistics")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListWorkLogs handles GET /api/v1/work-logs with optional startDate/endDate
// parameters, returning the caller's logs enriched with ticket and project
// attribution.
func (h *statsHandler) ListWorkLogs(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_param", err.Error())
		return
	}

	// Default to the last 30 days, end date inclusive.
	now := time.Now()
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	endExclusive := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)

	logs, err := h.logs.ListEnriched(r.Context(), u.ID, start, endExclusive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list work logs")
		return
	}
	if logs == nil {
		logs = []stats.WorkLog{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"workLogs": logs})
}
