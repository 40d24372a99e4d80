package dto

import "time"

// TeamStatistics aggregates a lead's direct reports by workflow status.
type TeamStatistics struct {
	LeadID         string         `json:"leadId"`
	TeamSize       int            `json:"teamSize"`
	Total          int            `json:"totalAssessments"`
	ByStatus       map[string]int `json:"byStatus"`
	Active         int            `json:"active"`
	Completed      int            `json:"completed"`
	AwaitingLead   int            `json:"awaitingLead"`
	CompletionRate float64        `json:"completionRate"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// TeamMemberStatus is one member line of a team summary.
type TeamMemberStatus struct {
	UserID        string     `json:"userId"`
	FullName      string     `json:"fullName"`
	Role          string     `json:"role"`
	ActiveStatus  string     `json:"activeStatus,omitempty"`
	ActiveID      string     `json:"activeAssessmentId,omitempty"`
	NextApprover  string     `json:"nextApprover,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// TeamSummary is HR's view of one team's assessment progress.
type TeamSummary struct {
	TeamID      string             `json:"teamId"`
	TeamName    string             `json:"teamName"`
	Members     []TeamMemberStatus `json:"members"`
	ByStatus    map[string]int     `json:"byStatus"`
	GeneratedAt time.Time          `json:"generatedAt"`
}
