package models

import "time"

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type ActivitySummary struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Type        BenefitType `json:"type"`
	Status      Status      `json:"status"`
	Date        time.Time   `json:"date"`
	OwnerEmail  string      `json:"userEmail"`
	Urgency     Urgency     `json:"urgency"`
	Description string      `json:"description"`
}

type DashboardStats struct {
	TotalIssues         int               `json:"totalIssues"`
	PendingIssues       int               `json:"pendingIssues"`
	ResolvedIssues      int               `json:"resolvedIssues"`
	CommunityIssues     int               `json:"communityIssues"`
	GovernmentSchemes   int               `json:"governmentSchemes"`
	CriticalIssues      int               `json:"criticalIssues"`
	ResolutionRate      float64           `json:"resolutionRate"`
	IssuesByMonth       []MonthCount      `json:"issuesByMonth"`
	RecentActivity      []ActivitySummary `json:"recentActivity"`
	AdminResolvedIssues int               `json:"adminResolvedIssues"`
}
