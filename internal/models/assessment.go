package models

import "time"

// AssessmentStatus captures the workflow states of an assessment request.
type AssessmentStatus string

const (
	AssessmentStatusInitiated        AssessmentStatus = "INITIATED"
	AssessmentStatusLeadWriting      AssessmentStatus = "LEAD_WRITING"
	AssessmentStatusEmployeeReview   AssessmentStatus = "EMPLOYEE_REVIEW"
	AssessmentStatusEmployeeApproved AssessmentStatus = "EMPLOYEE_APPROVED"
	AssessmentStatusEmployeeRejected AssessmentStatus = "EMPLOYEE_REJECTED"
	AssessmentStatusHRFinalReview    AssessmentStatus = "HR_FINAL_REVIEW"
	AssessmentStatusCompleted        AssessmentStatus = "COMPLETED"
	AssessmentStatusCancelled        AssessmentStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s AssessmentStatus) Terminal() bool {
	return s == AssessmentStatusCompleted || s == AssessmentStatusCancelled
}

// Valid reports whether s is a known status.
func (s AssessmentStatus) Valid() bool {
	switch s {
	case AssessmentStatusInitiated, AssessmentStatusLeadWriting, AssessmentStatusEmployeeReview,
		AssessmentStatusEmployeeApproved, AssessmentStatusEmployeeRejected, AssessmentStatusHRFinalReview,
		AssessmentStatusCompleted, AssessmentStatusCancelled:
		return true
	}
	return false
}

// ActiveAssessmentStatuses lists every non-terminal status.
func ActiveAssessmentStatuses() []AssessmentStatus {
	return []AssessmentStatus{
		AssessmentStatusInitiated,
		AssessmentStatusLeadWriting,
		AssessmentStatusEmployeeReview,
		AssessmentStatusEmployeeApproved,
		AssessmentStatusEmployeeRejected,
		AssessmentStatusHRFinalReview,
	}
}

// AuditType tags the transition an audit entry records.
type AuditType string

const (
	AuditInitiated             AuditType = "INITIATED"
	AuditActivated             AuditType = "ACTIVATED"
	AuditLeadAssessmentWritten AuditType = "LEAD_ASSESSMENT_WRITTEN"
	AuditEmployeeApproved      AuditType = "EMPLOYEE_APPROVED"
	AuditEmployeeRejected      AuditType = "EMPLOYEE_REJECTED"
	AuditHRReviewStarted       AuditType = "HR_REVIEW_STARTED"
	AuditHRApproved            AuditType = "HR_APPROVED"
	AuditHRRejected            AuditType = "HR_REJECTED"
	AuditCancelled             AuditType = "CANCELLED"
	AuditScheduled             AuditType = "SCHEDULED"
)

const (
	// MinScore and MaxScore bound every lead-assigned score.
	MinScore = 1
	MaxScore = 4
)

// Assessment is the aggregate root: one assessment request per subject and recurrence.
type Assessment struct {
	ID                string           `db:"id" json:"id"`
	UserID            string           `db:"user_id" json:"userId"`
	CycleID           *string          `db:"cycle_id" json:"cycleId,omitempty"`
	Status            AssessmentStatus `db:"status" json:"status"`
	InitiatedBy       string           `db:"initiated_by" json:"initiatedBy"`
	NextApprover      *string          `db:"next_approver" json:"nextApprover"`
	ScheduledDate     time.Time        `db:"scheduled_date" json:"scheduledDate"`
	NextScheduledDate *time.Time       `db:"next_scheduled_date" json:"nextScheduledDate,omitempty"`
	CurrentCycle      int              `db:"current_cycle" json:"currentCycle"`
	CompletedAt       *time.Time       `db:"completed_at" json:"completedAt,omitempty"`
	RequestedAt       time.Time        `db:"requested_at" json:"requestedAt"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsAccessible reports whether the assessment is actionable at now.
func (a *Assessment) IsAccessible(now time.Time) bool {
	if a == nil || a.Status.Terminal() {
		return false
	}
	return !now.Before(a.ScheduledDate)
}

// Approver returns the next approver id or "".
func (a *Assessment) Approver() string {
	if a == nil || a.NextApprover == nil {
		return ""
	}
	return *a.NextApprover
}

// Score is the lead-assigned score for one skill of an assessment.
type Score struct {
	ID           string    `db:"id" json:"id"`
	AssessmentID string    `db:"assessment_id" json:"assessmentId"`
	SkillID      string    `db:"skill_id" json:"skillId"`
	LeadScore    *int      `db:"lead_score" json:"leadScore"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ScoreDetail joins a score with its skill name for display.
type ScoreDetail struct {
	Score
	SkillName string `db:"skill_name" json:"skillName"`
}

// AuditEntry is an append-only record of one workflow transition.
type AuditEntry struct {
	ID           string    `db:"id" json:"id"`
	AssessmentID string    `db:"assessment_id" json:"assessmentId"`
	AuditType    AuditType `db:"audit_type" json:"auditType"`
	EditorID     string    `db:"editor_id" json:"editorId"`
	CycleNumber  int       `db:"cycle_number" json:"cycleNumber"`
	Comments     string    `db:"comments" json:"comments"`
	AuditedAt    time.Time `db:"audited_at" json:"auditedAt"`
}

// AssessmentView is the reconstructed aggregate returned by every command and query.
type AssessmentView struct {
	Assessment
	Subject        *UserSummary  `json:"subject,omitempty"`
	DetailedScores []ScoreDetail `json:"detailedScores,omitempty"`
	History        []AuditEntry  `json:"history,omitempty"`
	Accessible     bool          `json:"isAccessible"`
}

// AssessmentFilter constrains listing queries.
type AssessmentFilter struct {
	UserID       string
	UserIDs      []string
	LeadID       string
	TeamID       string
	CycleID      string
	NextApprover string
	Statuses     []AssessmentStatus
	// ScheduledFrom/ScheduledTo bound scheduled_date as [from, to).
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	OrderAsc      bool
	Limit         int
	Offset        int
}

// LatestScore is the most recent approved lead score for one skill of a user.
type LatestScore struct {
	SkillID      string    `db:"skill_id" json:"skillId"`
	SkillName    string    `db:"skill_name" json:"skillName"`
	LeadScore    int       `db:"lead_score" json:"leadScore"`
	AssessmentID string    `db:"assessment_id" json:"assessmentId"`
	CompletedAt  time.Time `db:"completed_at" json:"completedAt"`
}
