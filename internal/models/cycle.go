package models

import (
	"time"

	"github.com/lib/pq"
)

// CycleStatus captures the lifecycle of a bulk assessment batch.
type CycleStatus string

const (
	CycleStatusActive    CycleStatus = "ACTIVE"
	CycleStatusCompleted CycleStatus = "COMPLETED"
	CycleStatusCancelled CycleStatus = "CANCELLED"
)

// AllTeams is the includeTeams token selecting every assessable user.
const AllTeams = "all"

// AssessmentCycle is a named batch of assessments created by one bulk initiation.
type AssessmentCycle struct {
	ID                   string         `db:"id" json:"id"`
	Title                string         `db:"title" json:"title"`
	CreatedBy            string         `db:"created_by" json:"createdBy"`
	ScheduledDate        time.Time      `db:"scheduled_date" json:"scheduledDate"`
	Status               CycleStatus    `db:"status" json:"status"`
	Comments             string         `db:"comments" json:"comments"`
	TargetTeams          pq.StringArray `db:"target_teams" json:"targetTeams"`
	ExcludedUsers        pq.StringArray `db:"excluded_users" json:"excludedUsers"`
	TotalAssessments     int            `db:"total_assessments" json:"totalAssessments"`
	CompletedAssessments int            `db:"completed_assessments" json:"completedAssessments"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}

// CompletionRate returns the completed share as a percentage.
func (c *AssessmentCycle) CompletionRate() float64 {
	if c == nil || c.TotalAssessments == 0 {
		return 0
	}
	return float64(c.CompletedAssessments) / float64(c.TotalAssessments) * 100
}

// CycleView bundles a cycle with its skills and, for detail reads, its assessments.
type CycleView struct {
	AssessmentCycle
	Skills         []Skill      `json:"skills"`
	CompletionRate float64      `json:"completionRate"`
	Assessments    []Assessment `json:"assessments,omitempty"`
}

// TargetOutcome classifies what happened to one target during a batch operation.
type TargetOutcome string

const (
	OutcomeCreated   TargetOutcome = "CREATED"
	OutcomeCancelled TargetOutcome = "CANCELLED"
	OutcomeSkipped   TargetOutcome = "SKIPPED"
	OutcomeFailed    TargetOutcome = "FAILED"
)

// TargetReport is one line of a batch operation report.
type TargetReport struct {
	UserID       string        `json:"userId"`
	AssessmentID string        `json:"assessmentId,omitempty"`
	Outcome      TargetOutcome `json:"outcome"`
	Reason       string        `json:"reason,omitempty"`
}

// BulkInitiationResult summarises a bulk initiation.
type BulkInitiationResult struct {
	CycleID         string         `json:"assessmentCycleId"`
	Title           string         `json:"title"`
	EligibleTargets int            `json:"targetUsers"`
	TotalCreated    int            `json:"totalAssessments"`
	Skills          []string       `json:"skills"`
	CreatedAt       time.Time      `json:"createdAt"`
	Report          []TargetReport `json:"report"`
}

// CycleCancellationResult summarises a cycle cancellation.
type CycleCancellationResult struct {
	Cycle     AssessmentCycle `json:"cycle"`
	Cancelled int             `json:"cancelled"`
	Failed    int             `json:"failed"`
	Report    []TargetReport  `json:"report"`
}
