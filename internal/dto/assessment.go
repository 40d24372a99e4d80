package dto

import "time"

// InitiateAssessmentRequest starts a single assessment for one user.
type InitiateAssessmentRequest struct {
	UserID   string   `json:"userId" validate:"required"`
	SkillIDs []string `json:"skillIds" validate:"required,min=1,dive,required"`
	// ScheduledDate defaults to now; a future date keeps the assessment dormant until the sweep activates it.
	ScheduledDate *time.Time `json:"scheduledDate"`
	Comments      string     `json:"comments" validate:"max=2000"`
}

// SkillScore is one lead-assigned score.
type SkillScore struct {
	SkillID string `json:"skillId" validate:"required"`
	Score   int    `json:"score" validate:"min=1,max=4"`
}

// SubmitLeadScoresRequest carries the lead's scores for every skill of an assessment.
type SubmitLeadScoresRequest struct {
	Scores   []SkillScore `json:"scores" validate:"required,min=1,dive"`
	Comments string       `json:"comments" validate:"max=2000"`
}

// ReviewDecisionRequest is shared by the employee review and the HR final review.
type ReviewDecisionRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Comments string `json:"comments" validate:"max=2000"`
}

// CommentRequest carries optional free text for transitions without a decision.
type CommentRequest struct {
	Comments string `json:"comments" validate:"max=2000"`
}

// ListAssessmentsQuery narrows role-scoped listings.
type ListAssessmentsQuery struct {
	Status  string `form:"status"`
	UserID  string `form:"userId"`
	CycleID string `form:"cycleId"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}
