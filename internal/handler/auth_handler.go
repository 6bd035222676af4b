package handlers

import (
	"encoding/json"
	"net/http"

	"cofix/internal/models"
	"cofix/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserAuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AdminAuthResponse struct {
	Token string            `json:"token"`
	Admin *models.AdminUser `json:"admin"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "invalid signup data: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.RegisterUser(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, UserAuthResponse{Token: token, User: user}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, UserAuthResponse{Token: token, User: user}, http.StatusOK)
}

func (h *Handlers) AdminSignup(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "invalid admin signup data: "+err.Error(), http.StatusBadRequest)
		return
	}

	admin, token, err := h.AuthService.RegisterAdmin(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AdminAuthResponse{Token: token, Admin: admin}, http.StatusCreated)
}

func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	admin, token, err := h.AuthService.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AdminAuthResponse{Token: token, Admin: admin}, http.StatusOK)
}
