package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"cofix/internal/apperrors"
	"cofix/internal/metrics"
	"cofix/internal/models"
	"cofix/internal/repository"
)

const recentActivityLimit = 5

var months = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

type DashboardService interface {
	Stats(ctx context.Context, adminEmail string) (*models.DashboardStats, error)
}

type dashboardService struct {
	postRepo  repository.PostRepository
	adminRepo repository.AdminRepository
	metrics   *metrics.Metrics
}

func NewDashboardService(postRepo repository.PostRepository, adminRepo repository.AdminRepository, m *metrics.Metrics) DashboardService {
	return &dashboardService{postRepo: postRepo, adminRepo: adminRepo, metrics: m}
}

// Stats reads every post once and the admin's counter. An admin without a
// profile gets 0 resolved issues.
func (s *dashboardService) Stats(ctx context.Context, adminEmail string) (*models.DashboardStats, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	adminResolved := 0
	if adminEmail != "" {
		admin, err := s.adminRepo.FindByEmail(ctx, adminEmail)
		switch {
		case err == nil:
			adminResolved = admin.IssuesResolved
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			return nil, err
		}
	}

	s.metrics.IncDashboardRequests()

	stats := Aggregate(models.NormalizePosts(posts), adminResolved)
	return &stats, nil
}

// Aggregate computes the dashboard over posts. Posts are expected to be
// normalized already.
func Aggregate(posts []models.Post, adminResolved int) models.DashboardStats {
	stats := models.DashboardStats{
		TotalIssues:         len(posts),
		AdminResolvedIssues: adminResolved,
	}

	var byMonth [12]int
	for _, p := range posts {
		switch {
		case p.Status.Is(models.StatusSolved):
			stats.ResolvedIssues++
		case p.Status.Is(models.StatusPending):
			stats.PendingIssues++
		}

		switch p.BenefitType {
		case models.CommunityIssue:
			stats.CommunityIssues++
		case models.GovernmentScheme:
			stats.GovernmentSchemes++
		}

		if p.Urgency.Is(models.UrgencyHigh) {
			stats.CriticalIssues++
		}

		// a zero date has month January, so every post lands in some bucket
		byMonth[p.CreateDate.Month()-1]++
	}

	stats.ResolutionRate = ResolutionRate(stats.ResolvedIssues, stats.TotalIssues)

	stats.IssuesByMonth = make([]models.MonthCount, len(months))
	for i, name := range months {
		stats.IssuesByMonth[i] = models.MonthCount{Month: name, Count: byMonth[i]}
	}

	stats.RecentActivity = recentActivity(posts, recentActivityLimit)
	return stats
}

// ResolutionRate is resolved/total as a percentage rounded to two decimals.
func ResolutionRate(resolved, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(resolved) / float64(total) * 100
	return math.Round(rate*100) / 100
}

func recentActivity(posts []models.Post, limit int) []models.ActivitySummary {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreateDate.After(sorted[j].CreateDate)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	activity := make([]models.ActivitySummary, 0, len(sorted))
	for _, p := range sorted {
		activity = append(activity, models.ActivitySummary{
			ID:          p.PostID,
			Title:       p.Title(),
			Type:        p.BenefitType,
			Status:      p.Status,
			Date:        p.CreateDate,
			OwnerEmail:  p.Email,
			Urgency:     p.Urgency,
			Description: p.Description,
		})
	}
	return activity
}
