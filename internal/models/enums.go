package models

import (
	"fmt"
	"strings"
)

type BenefitType string

const (
	CommunityIssue   BenefitType = "COMMUNITY_ISSUE"
	GovernmentScheme BenefitType = "GOVERNMENT_SCHEME"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSolved     Status = "SOLVED"
)

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

const (
	DefaultStatus      = StatusPending
	DefaultUrgency     = UrgencyMedium
	DefaultBenefitType = CommunityIssue
)

var statusAliases = map[string]Status{
	"PENDING":     StatusPending,
	"IN_PROGRESS": StatusInProgress,
	"SOLVED":      StatusSolved,
	"RESOLVED":    StatusSolved,
}

var urgencies = map[string]Urgency{
	"LOW":    UrgencyLow,
	"MEDIUM": UrgencyMedium,
	"HIGH":   UrgencyHigh,
}

var benefitTypes = map[string]BenefitType{
	"COMMUNITY_ISSUE":   CommunityIssue,
	"GOVERNMENT_SCHEME": GovernmentScheme,
}

func canonical(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseStatus accepts any casing, spaces or hyphens for underscores, and
// RESOLVED as a synonym of SOLVED.
func ParseStatus(raw string) (Status, error) {
	if s, ok := statusAliases[canonical(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

func ParseUrgency(raw string) (Urgency, error) {
	if u, ok := urgencies[canonical(raw)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown urgency %q", raw)
}

func ParseBenefitType(raw string) (BenefitType, error) {
	if t, ok := benefitTypes[canonical(raw)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown benefit type %q", raw)
}

// Is compares case-insensitively so legacy lower-case rows still match.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

func (u Urgency) Is(other Urgency) bool {
	return strings.EqualFold(string(u), string(other))
}

// NormalizePost fills missing status, urgency and benefit type with their
// defaults and canonicalizes recognized values. Unrecognized values from old
// rows are kept, upper-cased. Every read and write path goes through here.
func NormalizePost(p *Post) {
	if p.Status == "" {
		p.Status = DefaultStatus
	} else if s, err := ParseStatus(string(p.Status)); err == nil {
		p.Status = s
	} else {
		p.Status = Status(canonical(string(p.Status)))
	}

	if p.Urgency == "" {
		p.Urgency = DefaultUrgency
	} else if u, err := ParseUrgency(string(p.Urgency)); err == nil {
		p.Urgency = u
	} else {
		p.Urgency = Urgency(canonical(string(p.Urgency)))
	}

	if p.BenefitType == "" {
		p.BenefitType = DefaultBenefitType
	} else if t, err := ParseBenefitType(string(p.BenefitType)); err == nil {
		p.BenefitType = t
	} else {
		p.BenefitType = BenefitType(canonical(string(p.BenefitType)))
	}
}

func NormalizePosts(posts []Post) []Post {
	for i := range posts {
		NormalizePost(&posts[i])
	}
	return posts
}
