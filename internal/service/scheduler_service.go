package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
	"github.com/noah-isme/skill-assessment-api/pkg/jobs"
)

// SystemEditorID is recorded as the editor of audits written by the activation sweep.
const SystemEditorID = "system"

// JobTypeActivationSweep tags sweep jobs on the background queue.
const JobTypeActivationSweep = "assessment.activation_sweep"

// Activation is one INITIATED assessment the sweep will move to LEAD_WRITING.
type Activation struct {
	Assessment models.Assessment
	ScorerID   string
}

// SweepResult summarises one activation sweep run.
type SweepResult struct {
	Cutoff     time.Time `json:"cutoff"`
	Candidates int       `json:"candidates"`
	Activated  int       `json:"activated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ActivateDueAssessments selects the candidates that are due by the end of the day of now.
// A candidate qualifies when it is still INITIATED, its scheduled date is before the start
// of the next day (overdue dates included) and scorerOf resolves a scorer for it.
func ActivateDueAssessments(now time.Time, candidates []models.Assessment, scorerOf func(models.Assessment) (string, bool)) []Activation {
	cutoff := StartOfDay(now).Add(24 * time.Hour)
	out := make([]Activation, 0, len(candidates))
	for _, c := range candidates {
		if c.Status != models.AssessmentStatusInitiated {
			continue
		}
		if !c.ScheduledDate.Before(cutoff) {
			continue
		}
		scorer, ok := scorerOf(c)
		if !ok || scorer == "" {
			continue
		}
		out = append(out, Activation{Assessment: c, ScorerID: scorer})
	}
	return out
}

type dueAssessmentStore interface {
	ListDueForActivation(ctx context.Context, before time.Time) ([]models.Assessment, error)
	Transition(ctx context.Context, params repository.TransitionParams) error
}

type sweepRecorder interface {
	ObserveSweep(activated int, failed bool, duration time.Duration)
}

// SchedulerService applies the daily activation sweep.
type SchedulerService struct {
	store   dueAssessmentStore
	users   identityReader
	cache   teamViewInvalidator
	metrics sweepRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewSchedulerService constructs the sweep runner.
func NewSchedulerService(store dueAssessmentStore, users identityReader, cache teamViewInvalidator, metrics sweepRecorder, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulerService{
		store:   store,
		users:   users,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RunActivationSweep activates every INITIATED assessment scheduled on or before the day of now.
// Aggregates that moved on concurrently are skipped; running twice is a no-op.
func (s *SchedulerService) RunActivationSweep(ctx context.Context, now time.Time) (result SweepResult, err error) {
	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSweep(result.Activated, err != nil, time.Since(started))
		}
	}()

	cutoff := StartOfDay(now).Add(24 * time.Hour)
	result.Cutoff = cutoff
	candidates, err := s.store.ListDueForActivation(ctx, cutoff)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load sweep candidates")
	}
	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	subjects, err := s.subjectsOf(ctx, candidates)
	if err != nil {
		return result, err
	}
	activations := ActivateDueAssessments(now, candidates, func(a models.Assessment) (string, bool) {
		subject, ok := subjects[a.UserID]
		if !ok {
			return "", false
		}
		return resolveScorer(subject, a.InitiatedBy), true
	})
	result.Skipped = len(candidates) - len(activations)

	for i := range activations {
		act := activations[i]
		a := act.Assessment
		scorer := act.ScorerID
		a.Status = models.AssessmentStatusLeadWriting
		a.NextApprover = &scorer
		terr := s.store.Transition(ctx, repository.TransitionParams{
			Assessment: &a,
			From:       models.AssessmentStatusInitiated,
			Audit: models.AuditEntry{
				AuditType:   models.AuditActivated,
				EditorID:    SystemEditorID,
				CycleNumber: a.CurrentCycle,
				Comments:    "activated by daily sweep",
				AuditedAt:   s.now(),
			},
		})
		switch {
		case terr == nil:
			result.Activated++
		case errors.Is(terr, repository.ErrStaleState):
			result.Skipped++
			s.logger.Info("sweep skipped assessment that changed concurrently", zap.String("assessment_id", a.ID))
		default:
			result.Failed++
			s.logger.Error("sweep failed to activate assessment", zap.String("assessment_id", a.ID), zap.Error(terr))
		}
	}

	if result.Activated > 0 && s.cache != nil {
		s.cache.InvalidateTeamViews(ctx)
	}
	s.logger.Info("activation sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("candidates", result.Candidates),
		zap.Int("activated", result.Activated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	if result.Failed > 0 {
		return result, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("%d of %d activations failed", result.Failed, len(activations)))
	}
	return result, nil
}

func (s *SchedulerService) subjectsOf(ctx context.Context, candidates []models.Assessment) (map[string]*models.User, error) {
	ids := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load sweep subjects")
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// SweepJob builds the queue job for the sweep of the day containing now. The id
// is keyed by day so a second trigger is rejected while the first is pending.
func SweepJob(now time.Time) jobs.Job {
	day := StartOfDay(now)
	return jobs.Job{
		ID:      "sweep:" + day.Format("2006-01-02"),
		Type:    JobTypeActivationSweep,
		Payload: day,
	}
}

// HandleJob runs the sweep for a queued job. A non-nil error makes the queue retry,
// which is safe because activation is idempotent.
func (s *SchedulerService) HandleJob(ctx context.Context, job jobs.Job) error {
	now := s.now()
	if day, ok := job.Payload.(time.Time); ok {
		now = day
	}
	_, err := s.RunActivationSweep(ctx, now)
	return err
}

// NextSweepAt returns the next instant at or after now that falls on hour:00 in now's location.
func NextSweepAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
