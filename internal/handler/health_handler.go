package handlers

import (
	"net/http"

	"cofix/internal/repository"
)

type HealthResponse struct {
	Status        string   `json:"status"`
	MissingTables []string `json:"missingTables"`
}

// Health reports "degraded" when any table of the schema is missing.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	missing, err := h.TablesRepo.MissingTables(r.Context(), repository.ExpectedTables)
	if err != nil {
		h.logger().Error("health check failed", "error", err)
		writeSuccess(w, HealthResponse{Status: "unavailable", MissingTables: []string{}}, http.StatusServiceUnavailable)
		return
	}

	status := "ok"
	if len(missing) > 0 {
		status = "degraded"
	}

	writeSuccess(w, HealthResponse{Status: status, MissingTables: missing}, http.StatusOK)
}
