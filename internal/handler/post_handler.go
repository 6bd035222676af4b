package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"cofix/internal/models"
)

type CreatePostRequest struct {
	Email               string           `json:"email" validate:"required,email"`
	BenefitType         string           `json:"benefitType"`
	SchemeName          string           `json:"schemeName"`
	IssueName           string           `json:"issueName"`
	Description         string           `json:"description"`
	ActivityDescription string           `json:"activityDescription"`
	Comment             string           `json:"comment"`
	Image               *string          `json:"image"`
	Location            *models.Location `json:"location"`
	Status              string           `json:"status"`
	Urgency             string           `json:"urgency"`
}

// UpdatePostRequest carries the owner's email as part of the key. Fields
// outside this struct, such as createDate or benefitType, are ignored.
type UpdatePostRequest struct {
	Email               string           `json:"email" validate:"required,email"`
	Description         *string          `json:"description"`
	IssueName           *string          `json:"issueName"`
	SchemeName          *string          `json:"schemeName"`
	ActivityDescription *string          `json:"activityDescription"`
	Comment             *string          `json:"comment"`
	Urgency             *string          `json:"urgency"`
	Status              *string          `json:"status"`
	Location            *models.Location `json:"location"`
	Image               *string          `json:"image"`
}

func postIDFromPath(r *http.Request) (int64, bool) {
	postID, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
	if err != nil || postID <= 0 {
		return 0, false
	}
	return postID, true
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), models.PostDraft{
		Email:               req.Email,
		BenefitType:         req.BenefitType,
		SchemeName:          req.SchemeName,
		IssueName:           req.IssueName,
		Description:         req.Description,
		ActivityDescription: req.ActivityDescription,
		Comment:             req.Comment,
		Image:               req.Image,
		Location:            req.Location,
		Status:              req.Status,
		Urgency:             req.Urgency,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

// ReportIssue accepts the multipart report form with an optional "image" file.
func (h *Handlers) ReportIssue(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	lat, err := parseCoordinate(r.FormValue("lat"))
	if err != nil {
		WriteError(w, "lat is required and must be a number", http.StatusBadRequest)
		return
	}
	lng, err := parseCoordinate(r.FormValue("lng"))
	if err != nil {
		WriteError(w, "lng is required and must be a number", http.StatusBadRequest)
		return
	}

	report := models.IssueReport{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Urgency:     r.FormValue("urgency"),
		Location:    &models.Location{Lat: lat, Lng: lng},
		UserEmail:   r.FormValue("userEmail"),
	}

	file, _, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		report.ImageData, err = io.ReadAll(file)
		if err != nil {
			WriteError(w, "could not read image", http.StatusBadRequest)
			return
		}
	case err != http.ErrMissingFile:
		WriteError(w, "invalid image upload", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.ReportIssue(r.Context(), report)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

var errMissingCoordinate = errors.New("missing coordinate")

// parseCoordinate rejects blank values so a report is never placed at (0,0).
func parseCoordinate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errMissingCoordinate
	}
	return strconv.ParseFloat(raw, 64)
}

func (h *Handlers) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(r)
	if !ok {
		WriteError(w, "invalid postId", http.StatusBadRequest)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(),
		models.PostKey{Email: req.Email, PostID: postID},
		models.PostPatch{
			Description:         req.Description,
			IssueName:           req.IssueName,
			SchemeName:          req.SchemeName,
			ActivityDescription: req.ActivityDescription,
			Comment:             req.Comment,
			Urgency:             req.Urgency,
			Status:              req.Status,
			Location:            req.Location,
			Image:               req.Image,
		})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(r)
	if !ok {
		WriteError(w, "invalid postId", http.StatusBadRequest)
		return
	}

	if err := h.PostService.DeletePost(r.Context(), postID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListIssues returns every post, or those of one benefit type.
func (h *Handlers) ListIssues(w http.ResponseWriter, r *http.Request) {
	var (
		posts []models.Post
		err   error
	)
	if benefitType := r.URL.Query().Get("benefitType"); benefitType != "" {
		posts, err = h.PostService.ListByType(r.Context(), benefitType)
	} else {
		posts, err = h.PostService.ListAll(r.Context())
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, nonNilPosts(posts), http.StatusOK)
}

func (h *Handlers) AdminListIssues(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, nonNilPosts(posts), http.StatusOK)
}

// AdminUpdateStatus reads status and adminEmail from the query string or a
// form body. adminEmail falls back to the caller.
func (h *Handlers) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFromPath(r)
	if !ok {
		WriteError(w, "invalid postId", http.StatusBadRequest)
		return
	}

	adminEmail := r.FormValue("adminEmail")
	if adminEmail == "" {
		adminEmail, _, _ = IdentityFromContext(r.Context())
	}

	post, err := h.PostService.UpdateStatus(r.Context(), postID, r.FormValue("status"), adminEmail)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}
