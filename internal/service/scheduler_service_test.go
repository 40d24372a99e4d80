package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

func TestActivateDueAssessmentsSelectsDueInitiated(t *testing.T) {
	now := time.Date(2026, 3, 11, 6, 30, 0, 0, time.UTC)
	day := StartOfDay(now)
	candidates := []models.Assessment{
		{ID: "midnight", UserID: "u1", Status: models.AssessmentStatusInitiated, ScheduledDate: day},
		{ID: "afternoon", UserID: "u2", Status: models.AssessmentStatusInitiated, ScheduledDate: day.Add(15 * time.Hour)},
		{ID: "yesterday", UserID: "u3", Status: models.AssessmentStatusInitiated, ScheduledDate: day.Add(-time.Minute)},
		{ID: "tomorrow", UserID: "u4", Status: models.AssessmentStatusInitiated, ScheduledDate: day.Add(24 * time.Hour)},
		{ID: "running", UserID: "u5", Status: models.AssessmentStatusLeadWriting, ScheduledDate: day.Add(time.Hour)},
		{ID: "no-scorer", UserID: "orphan", Status: models.AssessmentStatusInitiated, ScheduledDate: day.Add(time.Hour)},
	}

	activations := ActivateDueAssessments(now, candidates, func(a models.Assessment) (string, bool) {
		if a.UserID == "orphan" {
			return "", false
		}
		return "scorer-" + a.UserID, true
	})

	require.Len(t, activations, 3)
	assert.Equal(t, "midnight", activations[0].Assessment.ID)
	assert.Equal(t, "scorer-u1", activations[0].ScorerID)
	assert.Equal(t, "afternoon", activations[1].Assessment.ID)
	assert.Equal(t, "yesterday", activations[2].Assessment.ID)
}

func newSweepHarness(t *testing.T) (*SchedulerService, *workflowHarness) {
	t.Helper()
	h := newWorkflowHarness(t)
	sched := NewSchedulerService(h.store, h.directory, h.cache, h.recorder, zap.NewNop())
	sched.now = func() time.Time { return *h.clock }
	return sched, h
}

func TestRunActivationSweepIsIdempotent(t *testing.T) {
	sched, h := newSweepHarness(t)
	ctx := context.Background()
	tomorrow := testNow.Add(24 * time.Hour)
	later := testNow.Add(48 * time.Hour)
	due := h.initiate(t, "emp-1", &tomorrow)
	notYet := h.initiate(t, "emp-2", &later)

	sweepAt := StartOfDay(tomorrow).Add(2 * time.Hour)
	h.advance(sweepAt.Sub(testNow))
	result, err := sched.RunActivationSweep(ctx, sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Activated)

	activated, err := h.store.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentStatusLeadWriting, activated.Status)
	assert.Equal(t, "lead-1", activated.Approver())
	audits, _ := h.store.ListAudits(ctx, due.ID)
	require.Len(t, audits, 2)
	assert.Equal(t, models.AuditActivated, audits[1].AuditType)
	assert.Equal(t, SystemEditorID, audits[1].EditorID)
	assert.Equal(t, models.AssessmentStatusInitiated, h.store.status(notYet.ID))

	again, err := sched.RunActivationSweep(ctx, sweepAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, again.Activated)
	audits, _ = h.store.ListAudits(ctx, due.ID)
	assert.Len(t, audits, 2)
	assert.Equal(t, 2, h.recorder.sweeps)
}

func TestRunActivationSweepCatchesAssessmentMissedByEarlierSweep(t *testing.T) {
	sched, h := newSweepHarness(t)
	ctx := context.Background()

	// the 09:00 sweep runs before the assessment exists
	result, err := sched.RunActivationSweep(ctx, testNow)
	require.NoError(t, err)
	assert.Zero(t, result.Candidates)

	h.advance(time.Hour)
	afternoon := testNow.Add(4 * time.Hour)
	view := h.initiate(t, "emp-1", &afternoon)
	require.Equal(t, models.AssessmentStatusInitiated, view.Status)

	for day := 1; day <= 3; day++ {
		sweepAt := testNow.Add(time.Duration(day) * 24 * time.Hour)
		h.advance(sweepAt.Sub(*h.clock))
		result, err = sched.RunActivationSweep(ctx, sweepAt)
		require.NoError(t, err)
		assert.True(t, result.Cutoff.Equal(StartOfDay(sweepAt).Add(24*time.Hour)))
		if day == 1 {
			assert.Equal(t, 1, result.Candidates)
			assert.Equal(t, 1, result.Activated)
		} else {
			assert.Zero(t, result.Candidates)
			assert.Zero(t, result.Activated)
		}
	}

	assert.Equal(t, models.AssessmentStatusLeadWriting, h.store.status(view.ID))
	audits, _ := h.store.ListAudits(ctx, view.ID)
	require.Equal(t, []models.AuditType{models.AuditInitiated, models.AuditActivated}, auditTypes(audits))
	assert.Equal(t, SystemEditorID, audits[1].EditorID)
}

func TestRunActivationSweepActivatesOverdueAssessment(t *testing.T) {
	sched, h := newSweepHarness(t)
	ctx := context.Background()
	tomorrow := testNow.Add(24 * time.Hour)
	view := h.initiate(t, "emp-1", &tomorrow)

	// no sweep ran for three days after the scheduled date
	sweepAt := tomorrow.Add(72 * time.Hour)
	h.advance(sweepAt.Sub(testNow))
	result, err := sched.RunActivationSweep(ctx, sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Activated)
	assert.Equal(t, models.AssessmentStatusLeadWriting, h.store.status(view.ID))

	_, err = h.svc.SubmitLeadScores(ctx, leadActor, view.ID, scoresOf("skill-1", 2, "skill-2", 3))
	require.NoError(t, err)
}

func TestRunActivationSweepSkipsConcurrentlyChangedAssessment(t *testing.T) {
	sched, h := newSweepHarness(t)
	tomorrow := testNow.Add(24 * time.Hour)
	view := h.initiate(t, "emp-1", &tomorrow)
	h.store.beforeTransition = func(s *memoryStore, id string) {
		s.mu.Lock()
		s.assessments[id].Status = models.AssessmentStatusCancelled
		s.mu.Unlock()
	}

	result, err := sched.RunActivationSweep(context.Background(), tomorrow)
	require.NoError(t, err)

	assert.Zero(t, result.Activated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, models.AssessmentStatusCancelled, h.store.status(view.ID))
}

func TestRunActivationSweepReportsInfrastructureFailure(t *testing.T) {
	sched, h := newSweepHarness(t)
	tomorrow := testNow.Add(24 * time.Hour)
	broken := h.initiate(t, "emp-1", &tomorrow)
	healthy := h.initiate(t, "emp-2", &tomorrow)
	h.store.transitionErr[broken.ID] = errors.New("connection reset")

	result, err := sched.RunActivationSweep(context.Background(), tomorrow)

	assert.Equal(t, appErrors.KindFatal, appErrors.KindOf(err))
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Activated)
	assert.Equal(t, models.AssessmentStatusLeadWriting, h.store.status(healthy.ID))
}

func TestHandleJobSweepsPayloadDay(t *testing.T) {
	sched, h := newSweepHarness(t)
	tomorrow := testNow.Add(24 * time.Hour)
	view := h.initiate(t, "emp-1", &tomorrow)

	job := SweepJob(tomorrow)
	assert.Equal(t, "sweep:2026-03-11", job.ID)
	assert.Equal(t, JobTypeActivationSweep, job.Type)

	require.NoError(t, sched.HandleJob(context.Background(), job))
	assert.Equal(t, models.AssessmentStatusLeadWriting, h.store.status(view.ID))
}

func TestNextSweepAt(t *testing.T) {
	morning := time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC), NextSweepAt(morning, 9))

	evening := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), NextSweepAt(evening, 9))

	onTheHour := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, onTheHour, NextSweepAt(onTheHour, 9))
}
