package api

import (
	"encoding/json"
	"net/http"
)

// WellKnownHandler serves the service manifest at
// /.well-known/punchcard.json so clients can discover the API surface.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	manifest := map[string]interface{}{
		"name":        "Punchcard",
		"description": "Team time tracking and project ticketing",
		"version":     "1",
		"api_base":    "/api/v1",
		"auth": map[string]string{
			"type":   "bearer",
			"login":  "/api/v1/auth/login",
			"logout": "/api/v1/auth/logout",
		},
		"endpoints": map[string]string{
			"work_sessions": "/api/v1/work-sessions",
			"work_logs":     "/api/v1/work-logs",
			"statistics":    "/api/v1/statistics",
			"teams":         "/api/v1/teams",
			"tickets":       "/api/v1/tickets",
		},
		"health": "/health",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(manifest)
}
