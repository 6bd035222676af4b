package handlers

import (
	"encoding/json"
	"net/http"

	"cofix/internal/service"
)

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	adminEmail := r.URL.Query().Get("adminEmail")
	if adminEmail == "" {
		adminEmail, _, _ = IdentityFromContext(r.Context())
	}

	stats, err := h.DashboardService.Stats(r.Context(), adminEmail)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, stats, http.StatusOK)
}

func (h *Handlers) GetAdminProfile(w http.ResponseWriter, r *http.Request) {
	email := subjectEmail(r)
	if email == "" {
		WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	admin, err := h.AdminService.GetProfile(r.Context(), email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, admin, http.StatusOK)
}

func (h *Handlers) UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	email := subjectEmail(r)
	if email == "" {
		WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	var req service.AdminProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	admin, err := h.AdminService.UpdateProfile(r.Context(), email, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, admin, http.StatusOK)
}
