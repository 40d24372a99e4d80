package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

const cycleChildPageSize = 200

type cycleStore interface {
	Create(ctx context.Context, cycle *models.AssessmentCycle, skillIDs []string) error
	GetByID(ctx context.Context, id string) (*models.AssessmentCycle, error)
	List(ctx context.Context, status models.CycleStatus) ([]models.AssessmentCycle, error)
	ListSkills(ctx context.Context, cycleID string) ([]models.Skill, error)
	UpdateStatus(ctx context.Context, id string, from, to models.CycleStatus) error
}

type populationReader interface {
	ListAssessable(ctx context.Context, teamIDs []string) ([]models.User, error)
}

type activeUserChecker interface {
	ActiveUserIDs(ctx context.Context, userIDs []string) (map[string]bool, error)
}

type bulkRecorder interface {
	RecordBulkTarget(outcome string)
}

// CycleService orchestrates bulk initiation and cancellation of assessment cycles.
type CycleService struct {
	cycles      cycleStore
	population  populationReader
	active      activeUserChecker
	assessments *AssessmentService
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     bulkRecorder
}

// NewCycleService wires the orchestrator on top of the assessment workflow.
func NewCycleService(cycles cycleStore, population populationReader, active activeUserChecker, assessments *AssessmentService, validate *validator.Validate, metrics bulkRecorder, logger *zap.Logger) *CycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleService{
		cycles:      cycles,
		population:  population,
		active:      active,
		assessments: assessments,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
	}
}

// NoEligibleTargetsReason is the single report line of a bulk initiation that matched nobody.
const NoEligibleTargetsReason = "no eligible targets"

// InitiateBulk creates a cycle and one assessment per eligible target. Each child
// is written in its own transaction so a failing target never inflates the cycle total.
func (s *CycleService) InitiateBulk(ctx context.Context, actor *models.JWTClaims, req dto.BulkInitiateRequest) (*models.BulkInitiationResult, error) {
	if err := s.assessments.guard.Authorize(hrOnly, actor, Subject{}); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation, "invalid bulk initiation payload")
	}
	skillIDs, err := s.assessments.resolveSkills(ctx, req.SkillIDs)
	if err != nil {
		return nil, err
	}

	var teamIDs []string
	if !containsString(req.IncludeTeams, models.AllTeams) {
		teamIDs = req.IncludeTeams
	}
	population, err := s.population.ListAssessable(ctx, teamIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to resolve target users")
	}

	excluded := make(map[string]bool, len(req.ExcludeUserIDs))
	for _, id := range req.ExcludeUserIDs {
		excluded[id] = true
	}
	targets := make([]models.User, 0, len(population))
	ids := make([]string, 0, len(population))
	for _, user := range population {
		if excluded[user.ID] {
			continue
		}
		targets = append(targets, user)
		ids = append(ids, user.ID)
	}

	busy, err := s.active.ActiveUserIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to check active assessments")
	}

	scheduled := s.assessments.now()
	if req.ScheduledDate != nil {
		scheduled = req.ScheduledDate.UTC()
	}
	targetTeams := []string{models.AllTeams}
	if teamIDs != nil {
		targetTeams = teamIDs
	}
	cycle := &models.AssessmentCycle{
		Title:         req.Title,
		CreatedBy:     actor.UserID,
		ScheduledDate: scheduled,
		Status:        models.CycleStatusActive,
		Comments:      req.Comments,
		TargetTeams:   targetTeams,
		ExcludedUsers: req.ExcludeUserIDs,
	}
	if err := s.cycles.Create(ctx, cycle, skillIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to create assessment cycle")
	}

	result := &models.BulkInitiationResult{
		CycleID:   cycle.ID,
		Title:     cycle.Title,
		Skills:    skillIDs,
		CreatedAt: cycle.CreatedAt,
		Report:    make([]models.TargetReport, 0, len(targets)),
	}
	comment := "initiated as part of cycle: " + cycle.Title
	if req.Comments != "" {
		comment = req.Comments
	}
	for i := range targets {
		user := &targets[i]
		if busy[user.ID] {
			result.Report = append(result.Report, s.report(models.TargetReport{UserID: user.ID, Outcome: models.OutcomeSkipped, Reason: "already has active assessment"}))
			continue
		}
		result.EligibleTargets++
		created, err := s.assessments.createFor(ctx, initiateParams{
			actorID:       actor.UserID,
			subject:       user,
			skillIDs:      skillIDs,
			scheduledDate: req.ScheduledDate,
			comments:      comment,
			cycleID:       &cycle.ID,
		})
		if err != nil {
			line := models.TargetReport{UserID: user.ID, Outcome: models.OutcomeFailed, Reason: appErrors.FromError(err).Message}
			switch appErrors.KindOf(err) {
			case appErrors.KindInvalidState, appErrors.KindConflict:
				line.Outcome = models.OutcomeSkipped
			default:
				s.logger.Warn("bulk child creation failed", zap.String("cycle_id", cycle.ID), zap.String("user_id", user.ID), zap.Error(err))
			}
			result.Report = append(result.Report, s.report(line))
			continue
		}
		result.TotalCreated++
		result.Report = append(result.Report, s.report(models.TargetReport{UserID: user.ID, AssessmentID: created.ID, Outcome: models.OutcomeCreated}))
	}
	if len(result.Report) == 0 {
		result.Report = append(result.Report, s.report(models.TargetReport{Outcome: models.OutcomeSkipped, Reason: NoEligibleTargetsReason}))
	}

	s.logger.Info("assessment cycle initiated",
		zap.String("cycle_id", cycle.ID),
		zap.Int("eligible", result.EligibleTargets),
		zap.Int("created", result.TotalCreated),
	)
	return result, nil
}

// CancelCycle cancels every active child and then the cycle itself. Child failures
// are reported per target without aborting the batch.
func (s *CycleService) CancelCycle(ctx context.Context, actor *models.JWTClaims, cycleID string, req dto.CommentRequest) (*models.CycleCancellationResult, error) {
	if err := s.assessments.guard.Authorize(hrOnly, actor, Subject{}); err != nil {
		return nil, err
	}
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	switch cycle.Status {
	case models.CycleStatusCancelled:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "assessment cycle is already cancelled")
	case models.CycleStatusCompleted:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "cannot cancel a completed assessment cycle")
	}

	children, err := s.children(ctx, cycle.ID, models.ActiveAssessmentStatuses())
	if err != nil {
		return nil, err
	}

	comment := req.Comments
	if comment == "" {
		comment = "cancelled with cycle: " + cycle.Title
	}
	result := &models.CycleCancellationResult{Report: make([]models.TargetReport, 0, len(children))}
	for i := range children {
		child := &children[i]
		if err := s.assessments.cancel(ctx, actor, child, comment); err != nil {
			result.Failed++
			result.Report = append(result.Report, s.report(models.TargetReport{
				UserID:       child.UserID,
				AssessmentID: child.ID,
				Outcome:      models.OutcomeFailed,
				Reason:       appErrors.FromError(err).Message,
			}))
			continue
		}
		result.Cancelled++
		result.Report = append(result.Report, s.report(models.TargetReport{UserID: child.UserID, AssessmentID: child.ID, Outcome: models.OutcomeCancelled}))
	}

	if err := s.cycles.UpdateStatus(ctx, cycle.ID, models.CycleStatusActive, models.CycleStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, appErrors.Clone(appErrors.ErrStaleState, "assessment cycle changed while cancelling")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to cancel assessment cycle")
	}
	cycle.Status = models.CycleStatusCancelled
	cycle.UpdatedAt = s.assessments.now()
	result.Cycle = *cycle

	s.logger.Info("assessment cycle cancelled",
		zap.String("cycle_id", cycle.ID),
		zap.Int("cancelled", result.Cancelled),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ListCycles returns cycles newest first with their skills and completion rate.
func (s *CycleService) ListCycles(ctx context.Context, actor *models.JWTClaims, query dto.ListCyclesQuery) ([]models.CycleView, error) {
	if err := s.assessments.guard.Authorize(hrOnly, actor, Subject{}); err != nil {
		return nil, err
	}
	status := models.CycleStatus(query.Status)
	switch status {
	case "", models.CycleStatusActive, models.CycleStatusCompleted, models.CycleStatusCancelled:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown cycle status "+query.Status)
	}
	cycles, err := s.cycles.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list assessment cycles")
	}
	views := make([]models.CycleView, 0, len(cycles))
	for i := range cycles {
		skills, err := s.cycles.ListSkills(ctx, cycles[i].ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load cycle skills")
		}
		views = append(views, models.CycleView{
			AssessmentCycle: cycles[i],
			Skills:          skills,
			CompletionRate:  cycles[i].CompletionRate(),
		})
	}
	return views, nil
}

// GetCycle returns one cycle with its skills and every child assessment.
func (s *CycleService) GetCycle(ctx context.Context, actor *models.JWTClaims, cycleID string) (*models.CycleView, error) {
	if err := s.assessments.guard.Authorize(hrOnly, actor, Subject{}); err != nil {
		return nil, err
	}
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	skills, err := s.cycles.ListSkills(ctx, cycle.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load cycle skills")
	}
	children, err := s.children(ctx, cycle.ID, nil)
	if err != nil {
		return nil, err
	}
	return &models.CycleView{
		AssessmentCycle: *cycle,
		Skills:          skills,
		CompletionRate:  cycle.CompletionRate(),
		Assessments:     children,
	}, nil
}

func (s *CycleService) loadCycle(ctx context.Context, id string) (*models.AssessmentCycle, error) {
	cycle, err := s.cycles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load assessment cycle")
	}
	return cycle, nil
}

// children pages through a cycle's assessments before any of them is modified.
func (s *CycleService) children(ctx context.Context, cycleID string, statuses []models.AssessmentStatus) ([]models.Assessment, error) {
	var out []models.Assessment
	for offset := 0; ; offset += cycleChildPageSize {
		page, _, err := s.assessments.store.List(ctx, models.AssessmentFilter{
			CycleID:  cycleID,
			Statuses: statuses,
			OrderAsc: true,
			Limit:    cycleChildPageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list cycle assessments")
		}
		out = append(out, page...)
		if len(page) < cycleChildPageSize {
			return out, nil
		}
	}
}

func (s *CycleService) report(line models.TargetReport) models.TargetReport {
	if s.metrics != nil {
		s.metrics.RecordBulkTarget(string(line.Outcome))
	}
	return line
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
