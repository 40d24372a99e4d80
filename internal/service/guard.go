package service

import (
	"strings"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

// Relationship ties an actor to the aggregate beyond their role.
type Relationship int

const (
	RelationshipNone Relationship = iota
	// RelationshipSubject requires the actor to be the assessed user.
	RelationshipSubject
	// RelationshipScorer requires the actor to be the resolved scorer of the subject.
	RelationshipScorer
)

// Operation names a workflow command.
type Operation string

const (
	OpInitiate         Operation = "initiate"
	OpSubmitLeadScores Operation = "submit_lead_scores"
	OpEmployeeReview   Operation = "employee_review"
	OpStartFinalReview Operation = "start_final_review"
	OpFinalReview      Operation = "final_review"
	OpCancel           Operation = "cancel"
)

// Requirement describes who may perform an operation.
type Requirement struct {
	Roles        []models.UserRole
	Relationship Relationship
}

type transitionRule struct {
	requirement Requirement
	from        []models.AssessmentStatus
}

var hrOnly = Requirement{Roles: []models.UserRole{models.RoleHR}}

var transitionRules = map[Operation]transitionRule{
	OpInitiate: {requirement: hrOnly},
	OpSubmitLeadScores: {
		requirement: Requirement{Relationship: RelationshipScorer},
		from:        []models.AssessmentStatus{models.AssessmentStatusLeadWriting, models.AssessmentStatusEmployeeRejected},
	},
	OpEmployeeReview: {
		requirement: Requirement{Relationship: RelationshipSubject},
		from:        []models.AssessmentStatus{models.AssessmentStatusEmployeeReview},
	},
	OpStartFinalReview: {
		requirement: hrOnly,
		from:        []models.AssessmentStatus{models.AssessmentStatusEmployeeApproved, models.AssessmentStatusEmployeeRejected},
	},
	OpFinalReview: {
		requirement: hrOnly,
		from:        []models.AssessmentStatus{models.AssessmentStatusEmployeeApproved, models.AssessmentStatusHRFinalReview},
	},
	OpCancel: {
		requirement: hrOnly,
		from:        models.ActiveAssessmentStatuses(),
	},
}

// Guard evaluates the transition table for every workflow command.
type Guard struct{}

// Subject carries the relationship facts the guard needs about an aggregate.
type Subject struct {
	UserID   string
	ScorerID string
}

// Authorize checks the actor half of a rule: role membership and relationship.
func (Guard) Authorize(req Requirement, actor *models.JWTClaims, subject Subject) error {
	if actor == nil {
		return appErrors.ErrUnauthenticated
	}
	if len(req.Roles) > 0 && !hasRole(req.Roles, actor.Role) {
		return appErrors.Clone(appErrors.ErrForbidden, "role not permitted for this operation")
	}
	switch req.Relationship {
	case RelationshipSubject:
		if actor.UserID != subject.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the assessed user may respond")
		}
	case RelationshipScorer:
		if subject.ScorerID == "" || actor.UserID != subject.ScorerID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the assigned scorer may submit scores")
		}
	}
	return nil
}

// Check authorizes the actor for op and then verifies the aggregate sits in a permitted source status.
func (g Guard) Check(op Operation, actor *models.JWTClaims, assessment *models.Assessment, subject Subject) error {
	rule, ok := transitionRules[op]
	if !ok {
		return appErrors.Clone(appErrors.ErrInternal, "unknown workflow operation")
	}
	if err := g.Authorize(rule.requirement, actor, subject); err != nil {
		return err
	}
	if assessment == nil || len(rule.from) == 0 {
		return nil
	}
	for _, status := range rule.from {
		if assessment.Status == status {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrInvalidState, "cannot "+humanize(op)+" while assessment is "+string(assessment.Status))
}

func hasRole(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func humanize(op Operation) string {
	return strings.ReplaceAll(string(op), "_", " ")
}

// resolveScorer picks the user responsible for writing scores: the subject's lead,
// else the subject's HR partner, else the initiating HR user.
func resolveScorer(subject *models.User, initiatedBy string) string {
	if lead := subject.Lead(); lead != "" {
		return lead
	}
	if hr := subject.HR(); hr != "" {
		return hr
	}
	return initiatedBy
}
