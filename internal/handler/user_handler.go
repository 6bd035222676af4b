package handlers

import (
	"encoding/json"
	"net/http"

	"cofix/internal/models"
	"cofix/internal/service"
)

// subjectEmail is the ?email= parameter, or the caller's own email.
func subjectEmail(r *http.Request) string {
	if email := r.URL.Query().Get("email"); email != "" {
		return email
	}
	email, _, _ := IdentityFromContext(r.Context())
	return email
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := subjectEmail(r)
	if email == "" {
		WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := subjectEmail(r)
	if email == "" {
		WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	var req service.UserProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), email, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

// GetProfilePosts lists the caller's posts, optionally of one benefit type.
func (h *Handlers) GetProfilePosts(w http.ResponseWriter, r *http.Request) {
	email := subjectEmail(r)
	if email == "" {
		WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	var (
		posts []models.Post
		err   error
	)
	if benefitType := r.URL.Query().Get("benefitType"); benefitType != "" {
		posts, err = h.PostService.ListByEmailAndType(r.Context(), email, benefitType)
	} else {
		posts, err = h.PostService.ListByEmail(r.Context(), email)
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, nonNilPosts(posts), http.StatusOK)
}

func nonNilPosts(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
