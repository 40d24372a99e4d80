package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

// DefaultRecurrenceInterval separates a completed assessment from its follow-up.
const DefaultRecurrenceInterval = 90 * 24 * time.Hour

const maxActionQueue = 200

type assessmentStore interface {
	Create(ctx context.Context, params repository.CreateAssessmentParams) error
	Transition(ctx context.Context, params repository.TransitionParams) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	FindActiveByUser(ctx context.Context, userID string) (*models.Assessment, error)
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error)
	ListScores(ctx context.Context, assessmentID string) ([]models.ScoreDetail, error)
	ListAudits(ctx context.Context, assessmentID string) ([]models.AuditEntry, error)
}

type identityReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type skillReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error)
}

type teamViewInvalidator interface {
	InvalidateTeamViews(ctx context.Context)
}

type transitionRecorder interface {
	RecordTransition(op Operation, outcome string)
}

// AssessmentServiceOption customises an AssessmentService.
type AssessmentServiceOption func(*AssessmentService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) AssessmentServiceOption {
	return func(s *AssessmentService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecurrenceInterval overrides the gap between a completion and its follow-up.
func WithRecurrenceInterval(d time.Duration) AssessmentServiceOption {
	return func(s *AssessmentService) {
		if d > 0 {
			s.recurrence = d
		}
	}
}

// WithTeamViewCache registers the cache whose team views are dropped after every write.
func WithTeamViewCache(c teamViewInvalidator) AssessmentServiceOption {
	return func(s *AssessmentService) { s.cache = c }
}

// WithTransitionRecorder registers a metrics sink for workflow commands.
func WithTransitionRecorder(r transitionRecorder) AssessmentServiceOption {
	return func(s *AssessmentService) { s.recorder = r }
}

// AssessmentService owns the assessment state machine and its role-scoped reads.
type AssessmentService struct {
	store      assessmentStore
	users      identityReader
	skills     skillReader
	guard      Guard
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	recurrence time.Duration
	cache      teamViewInvalidator
	recorder   transitionRecorder
}

// NewAssessmentService builds an AssessmentService with sane defaults.
func NewAssessmentService(store assessmentStore, users identityReader, skills skillReader, validate *validator.Validate, logger *zap.Logger, opts ...AssessmentServiceOption) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AssessmentService{
		store:      store,
		users:      users,
		skills:     skills,
		validator:  validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		recurrence: DefaultRecurrenceInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type initiateParams struct {
	actorID       string
	subject       *models.User
	skillIDs      []string
	scheduledDate *time.Time
	comments      string
	cycleID       *string
}

// Initiate starts an assessment for one user on behalf of an HR actor.
func (s *AssessmentService) Initiate(ctx context.Context, actor *models.JWTClaims, req dto.InitiateAssessmentRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpInitiate, err) }()

	if err := s.guard.Check(OpInitiate, actor, nil, Subject{}); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid initiate payload")
	}
	skillIDs, err := s.resolveSkills(ctx, req.SkillIDs)
	if err != nil {
		return nil, err
	}
	subject, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	created, err := s.createFor(ctx, initiateParams{
		actorID:       actor.UserID,
		subject:       subject,
		skillIDs:      skillIDs,
		scheduledDate: req.ScheduledDate,
		comments:      req.Comments,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("assessment initiated",
		zap.String("assessment_id", created.ID),
		zap.String("user_id", subject.ID),
		zap.String("status", string(created.Status)),
	)
	return s.buildView(ctx, created, subject)
}

// createFor persists a new assessment for subject. It is shared by single and bulk initiation.
func (s *AssessmentService) createFor(ctx context.Context, p initiateParams) (*models.Assessment, error) {
	if !p.subject.Role.Assessable() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "users with role "+string(p.subject.Role)+" cannot be assessed")
	}
	if _, err := s.store.FindActiveByUser(ctx, p.subject.ID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "user already has an active assessment")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to check active assessment")
	}

	now := s.now()
	scheduled := now
	var nextScheduled *time.Time
	if p.scheduledDate != nil {
		scheduled = p.scheduledDate.UTC()
		next := scheduled.Add(s.recurrence)
		nextScheduled = &next
	}

	scorer := resolveScorer(p.subject, p.actorID)
	a := &models.Assessment{
		ID:                uuid.NewString(),
		UserID:            p.subject.ID,
		CycleID:           p.cycleID,
		Status:            models.AssessmentStatusInitiated,
		InitiatedBy:       p.actorID,
		NextApprover:      &scorer,
		ScheduledDate:     scheduled,
		NextScheduledDate: nextScheduled,
		CurrentCycle:      1,
		RequestedAt:       now,
	}
	audits := []models.AuditEntry{{
		AuditType:   models.AuditInitiated,
		EditorID:    p.actorID,
		CycleNumber: 1,
		Comments:    p.comments,
		AuditedAt:   now,
	}}
	if a.IsAccessible(now) {
		a.Status = models.AssessmentStatusLeadWriting
		audits = append(audits, models.AuditEntry{
			AuditType:   models.AuditActivated,
			EditorID:    p.actorID,
			CycleNumber: 1,
			AuditedAt:   now,
		})
	}

	err := s.store.Create(ctx, repository.CreateAssessmentParams{
		Assessment:       a,
		SkillIDs:         p.skillIDs,
		Audits:           audits,
		CountTowardCycle: p.cycleID != nil,
	})
	if err != nil {
		if errors.Is(err, repository.ErrActiveAssessmentExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "user already has an active assessment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to create assessment")
	}
	s.invalidate(ctx)
	return a, nil
}

// SubmitLeadScores records the scorer's scores and hands the assessment to the employee.
func (s *AssessmentService) SubmitLeadScores(ctx context.Context, actor *models.JWTClaims, id string, req dto.SubmitLeadScoresRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpSubmitLeadScores, err) }()

	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	scorer := resolveScorer(subject, a.InitiatedBy)
	if err := s.guard.Check(OpSubmitLeadScores, actor, a, Subject{UserID: a.UserID, ScorerID: scorer}); err != nil {
		return nil, err
	}
	if !a.IsAccessible(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "assessment is not yet accessible")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid score payload")
	}

	existing, err := s.store.ListScores(ctx, a.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load scores")
	}
	scores, err := validateScoreSet(existing, req.Scores)
	if err != nil {
		return nil, err
	}

	from := a.Status
	next := subject.ID
	a.Status = models.AssessmentStatusEmployeeReview
	a.NextApprover = &next
	if err := s.transition(ctx, repository.TransitionParams{
		Assessment: a,
		From:       from,
		Scores:     scores,
		Audit:      s.audit(models.AuditLeadAssessmentWritten, actor.UserID, a.CurrentCycle, req.Comments),
	}); err != nil {
		return nil, err
	}
	return s.buildView(ctx, a, subject)
}

// validateScoreSet requires exactly one in-range score for every skill of the assessment.
func validateScoreSet(existing []models.ScoreDetail, submitted []dto.SkillScore) (map[string]int, error) {
	if len(submitted) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one score is required")
	}
	known := make(map[string]bool, len(existing))
	for _, sc := range existing {
		known[sc.SkillID] = true
	}
	scores := make(map[string]int, len(submitted))
	for _, entry := range submitted {
		if entry.Score < models.MinScore || entry.Score > models.MaxScore {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("score for skill %s must be between %d and %d", entry.SkillID, models.MinScore, models.MaxScore))
		}
		if !known[entry.SkillID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "skill "+entry.SkillID+" is not part of this assessment")
		}
		if _, dup := scores[entry.SkillID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "skill "+entry.SkillID+" scored twice")
		}
		scores[entry.SkillID] = entry.Score
	}
	if len(scores) != len(known) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "every skill of the assessment must be scored")
	}
	return scores, nil
}

// EmployeeReview lets the assessed user accept or dispute the lead's scores.
func (s *AssessmentService) EmployeeReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewDecisionRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpEmployeeReview, err) }()

	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(OpEmployeeReview, actor, a, Subject{UserID: a.UserID}); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "approved decision is required")
	}

	from := a.Status
	auditType := models.AuditEmployeeApproved
	if *req.Approved {
		next := a.InitiatedBy
		a.Status = models.AssessmentStatusEmployeeApproved
		a.NextApprover = &next
	} else {
		next := resolveScorer(subject, a.InitiatedBy)
		a.Status = models.AssessmentStatusEmployeeRejected
		a.NextApprover = &next
		auditType = models.AuditEmployeeRejected
	}
	if err := s.transition(ctx, repository.TransitionParams{
		Assessment: a,
		From:       from,
		Audit:      s.audit(auditType, actor.UserID, a.CurrentCycle, req.Comments),
	}); err != nil {
		return nil, err
	}
	return s.buildView(ctx, a, subject)
}

// StartFinalReview marks an employee-approved assessment as under HR review.
func (s *AssessmentService) StartFinalReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.CommentRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpStartFinalReview, err) }()

	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(OpStartFinalReview, actor, a, Subject{UserID: a.UserID}); err != nil {
		return nil, err
	}

	from := a.Status
	next := a.InitiatedBy
	a.Status = models.AssessmentStatusHRFinalReview
	a.NextApprover = &next
	if err := s.transition(ctx, repository.TransitionParams{
		Assessment: a,
		From:       from,
		Audit:      s.audit(models.AuditHRReviewStarted, actor.UserID, a.CurrentCycle, req.Comments),
	}); err != nil {
		return nil, err
	}
	return s.buildView(ctx, a, subject)
}

// FinalReview completes the assessment or sends it back to the scorer for another cycle.
func (s *AssessmentService) FinalReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewDecisionRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpFinalReview, err) }()

	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(OpFinalReview, actor, a, Subject{UserID: a.UserID}); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "approved decision is required")
	}

	from := a.Status
	params := repository.TransitionParams{Assessment: a, From: from}
	if *req.Approved {
		now := s.now()
		a.Status = models.AssessmentStatusCompleted
		a.CompletedAt = &now
		a.NextApprover = nil
		params.CompleteCycle = true
		params.Audit = s.audit(models.AuditHRApproved, actor.UserID, a.CurrentCycle, req.Comments)
		if a.NextScheduledDate != nil {
			followUp, err := s.followUp(ctx, a, subject, actor.UserID, now)
			if err != nil {
				return nil, err
			}
			params.FollowUp = followUp
		}
	} else {
		next := resolveScorer(subject, a.InitiatedBy)
		a.Status = models.AssessmentStatusLeadWriting
		a.CurrentCycle++
		a.NextApprover = &next
		params.Audit = s.audit(models.AuditHRRejected, actor.UserID, a.CurrentCycle, req.Comments)
	}

	if err := s.transition(ctx, params); err != nil {
		return nil, err
	}
	if params.FollowUp != nil {
		s.logger.Info("follow-up assessment scheduled",
			zap.String("assessment_id", params.FollowUp.Assessment.ID),
			zap.String("user_id", subject.ID),
			zap.Time("scheduled_date", params.FollowUp.Assessment.ScheduledDate),
		)
	}
	return s.buildView(ctx, a, subject)
}

// followUp prepares the next recurrence of a completed assessment with the same skill set.
func (s *AssessmentService) followUp(ctx context.Context, done *models.Assessment, subject *models.User, actorID string, completedAt time.Time) (*repository.CreateAssessmentParams, error) {
	scores, err := s.store.ListScores(ctx, done.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load skills for follow-up")
	}
	skillIDs := make([]string, 0, len(scores))
	for _, sc := range scores {
		skillIDs = append(skillIDs, sc.SkillID)
	}
	scorer := resolveScorer(subject, actorID)
	nextScheduled := completedAt.Add(s.recurrence)
	next := &models.Assessment{
		ID:                uuid.NewString(),
		UserID:            done.UserID,
		Status:            models.AssessmentStatusInitiated,
		InitiatedBy:       actorID,
		NextApprover:      &scorer,
		ScheduledDate:     *done.NextScheduledDate,
		NextScheduledDate: &nextScheduled,
		CurrentCycle:      1,
		RequestedAt:       completedAt,
	}
	audits := []models.AuditEntry{s.audit(models.AuditScheduled, actorID, 1, "scheduled from assessment "+done.ID)}
	// a follow-up whose date already passed is due now; the sweep would only reach it tomorrow
	if next.IsAccessible(completedAt) {
		next.Status = models.AssessmentStatusLeadWriting
		audits = append(audits, s.audit(models.AuditActivated, actorID, 1, "follow-up was already due"))
	}
	return &repository.CreateAssessmentParams{
		Assessment: next,
		SkillIDs:   skillIDs,
		Audits:     audits,
	}, nil
}

// Cancel terminates a non-terminal assessment.
func (s *AssessmentService) Cancel(ctx context.Context, actor *models.JWTClaims, id string, req dto.CommentRequest) (view *models.AssessmentView, err error) {
	defer func() { s.record(OpCancel, err) }()

	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cancel(ctx, actor, a, req.Comments); err != nil {
		return nil, err
	}
	return s.buildView(ctx, a, subject)
}

func (s *AssessmentService) cancel(ctx context.Context, actor *models.JWTClaims, a *models.Assessment, comments string) error {
	if err := s.guard.Check(OpCancel, actor, a, Subject{UserID: a.UserID}); err != nil {
		return err
	}
	from := a.Status
	a.Status = models.AssessmentStatusCancelled
	a.NextApprover = nil
	return s.transition(ctx, repository.TransitionParams{
		Assessment: a,
		From:       from,
		Audit:      s.audit(models.AuditCancelled, actor.UserID, a.CurrentCycle, comments),
	})
}

// Get returns the reconstructed aggregate when the actor may see it.
func (s *AssessmentService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.AssessmentView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthenticated
	}
	a, subject, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, a, subject) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assessment not visible to caller")
	}
	return s.buildView(ctx, a, subject)
}

// canView applies the role-scoped visibility rules: HR sees all, leads see their reports, everyone sees their own.
func canView(actor *models.JWTClaims, a *models.Assessment, subject *models.User) bool {
	switch {
	case actor.Role == models.RoleHR:
		return true
	case a.UserID == actor.UserID:
		return true
	case actor.Role == models.RoleLead && subject != nil && subject.Lead() == actor.UserID:
		return true
	case a.Approver() == actor.UserID:
		return true
	}
	return false
}

// ListForRole returns the assessments visible to the actor.
func (s *AssessmentService) ListForRole(ctx context.Context, actor *models.JWTClaims, query dto.ListAssessmentsQuery) ([]models.AssessmentView, int, error) {
	if actor == nil {
		return nil, 0, appErrors.ErrUnauthenticated
	}
	filter := models.AssessmentFilter{
		UserID:  query.UserID,
		CycleID: query.CycleID,
		Limit:   query.Limit,
		Offset:  query.Offset,
	}
	if query.Status != "" {
		status := models.AssessmentStatus(query.Status)
		if !status.Valid() {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown status "+query.Status)
		}
		filter.Statuses = []models.AssessmentStatus{status}
	}
	switch actor.Role {
	case models.RoleHR:
	case models.RoleLead:
		filter.LeadID = actor.UserID
	default:
		filter.UserID = actor.UserID
	}

	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list assessments")
	}
	views, err := s.summarize(ctx, items)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// RequiringAction returns accessible, non-terminal assessments waiting on the actor.
func (s *AssessmentService) RequiringAction(ctx context.Context, actor *models.JWTClaims) ([]models.AssessmentView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthenticated
	}
	items, _, err := s.store.List(ctx, models.AssessmentFilter{
		NextApprover: actor.UserID,
		Statuses:     models.ActiveAssessmentStatuses(),
		OrderAsc:     true,
		Limit:        maxActionQueue,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list pending assessments")
	}
	return s.summarize(ctx, filterAccessible(items, s.now()))
}

func filterAccessible(items []models.Assessment, now time.Time) []models.Assessment {
	out := make([]models.Assessment, 0, len(items))
	for _, item := range items {
		if item.IsAccessible(now) {
			out = append(out, item)
		}
	}
	return out
}

// summarize decorates list rows with their subject and accessibility.
func (s *AssessmentService) summarize(ctx context.Context, items []models.Assessment) ([]models.AssessmentView, error) {
	views := make([]models.AssessmentView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.UserID] {
			seen[item.UserID] = true
			ids = append(ids, item.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load assessed users")
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	now := s.now()
	for _, item := range items {
		views = append(views, models.AssessmentView{
			Assessment: item,
			Subject:    byID[item.UserID].Summary(),
			Accessible: item.IsAccessible(now),
		})
	}
	return views, nil
}

func (s *AssessmentService) buildView(ctx context.Context, a *models.Assessment, subject *models.User) (*models.AssessmentView, error) {
	scores, err := s.store.ListScores(ctx, a.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load scores")
	}
	history, err := s.store.ListAudits(ctx, a.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load history")
	}
	return &models.AssessmentView{
		Assessment:     *a,
		Subject:        subject.Summary(),
		DetailedScores: scores,
		History:        history,
		Accessible:     a.IsAccessible(s.now()),
	}, nil
}

func (s *AssessmentService) loadAggregate(ctx context.Context, id string) (*models.Assessment, *models.User, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load assessment")
	}
	subject, err := s.loadUser(ctx, a.UserID)
	if err != nil {
		return nil, nil, err
	}
	return a, subject, nil
}

func (s *AssessmentService) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load user")
	}
	return user, nil
}

// resolveSkills deduplicates ids and fails with NotFound when any is unknown.
func (s *AssessmentService) resolveSkills(ctx context.Context, ids []string) ([]string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one skill is required")
	}
	skills, err := s.skills.FindByIDs(ctx, unique)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load skills")
	}
	if len(skills) != len(unique) {
		found := make(map[string]bool, len(skills))
		for _, sk := range skills {
			found[sk.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "skill "+id+" not found")
			}
		}
	}
	return unique, nil
}

func (s *AssessmentService) transition(ctx context.Context, params repository.TransitionParams) error {
	if err := s.store.Transition(ctx, params); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleState):
			return appErrors.Clone(appErrors.ErrStaleState, "assessment changed while the request was processed; reload and retry")
		case errors.Is(err, repository.ErrActiveAssessmentExists):
			return appErrors.Clone(appErrors.ErrConflict, "follow-up collides with another active assessment")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal, "failed to update assessment")
	}
	s.invalidate(ctx)
	return nil
}

func (s *AssessmentService) audit(kind models.AuditType, editorID string, cycle int, comments string) models.AuditEntry {
	return models.AuditEntry{
		AuditType:   kind,
		EditorID:    editorID,
		CycleNumber: cycle,
		Comments:    comments,
		AuditedAt:   s.now(),
	}
}

func (s *AssessmentService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateTeamViews(ctx)
	}
}

func (s *AssessmentService) record(op Operation, err error) {
	if s.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(appErrors.KindOf(err))
	}
	s.recorder.RecordTransition(op, outcome)
}
