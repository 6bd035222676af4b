package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts every API endpoint on r. Authentication and role
// checks are applied around the router by the middleware package.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	api.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/posts", h.GetProfilePosts).Methods(http.MethodGet)
	api.HandleFunc("/profile/issues/{postId:[0-9]+}", h.UpdateIssue).Methods(http.MethodPut)
	api.HandleFunc("/profile/issues/{postId:[0-9]+}", h.DeleteIssue).Methods(http.MethodDelete)

	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/issues", h.ListIssues).Methods(http.MethodGet)
	api.HandleFunc("/issues/report", h.ReportIssue).Methods(http.MethodPost)

	api.HandleFunc("/reviews", h.AddReview).Methods(http.MethodPost)
	api.HandleFunc("/reviews", h.ListReviews).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/signup", h.AdminSignup).Methods(http.MethodPost)
	admin.HandleFunc("/login", h.AdminLogin).Methods(http.MethodPost)
	admin.HandleFunc("/issues", h.AdminListIssues).Methods(http.MethodGet)
	admin.HandleFunc("/issues/update/{postId:[0-9]+}", h.AdminUpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/dashboard-stats", h.DashboardStats).Methods(http.MethodGet)
	admin.HandleFunc("/profile", h.GetAdminProfile).Methods(http.MethodGet)
	admin.HandleFunc("/profile", h.UpdateAdminProfile).Methods(http.MethodPut)
}
