package handlers

import (
	"encoding/json"
	"net/http"

	"cofix/internal/models"
)

type ReviewRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Comment string `json:"comment" validate:"required"`
}

func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "comment is required", http.StatusBadRequest)
		return
	}

	email := req.Email
	if email == "" {
		email, _, _ = IdentityFromContext(r.Context())
	}

	review, err := h.ReviewService.AddReview(r.Context(), email, req.Comment)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, review, http.StatusCreated)
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.ReviewService.ListByEmail(r.Context(), subjectEmail(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	writeSuccess(w, reviews, http.StatusOK)
}
