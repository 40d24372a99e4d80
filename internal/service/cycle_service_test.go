package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

func newCycleHarness(t *testing.T) (*CycleService, *workflowHarness) {
	t.Helper()
	h := newWorkflowHarness(t)
	svc := NewCycleService(cycleStoreStub{memoryStore: h.store}, h.directory, h.store, h.svc, nil, h.recorder, zap.NewNop())
	return svc, h
}

func (h *workflowHarness) complete(t *testing.T, id string, scorer, subject *models.JWTClaims) {
	t.Helper()
	ctx := context.Background()
	_, err := h.svc.SubmitLeadScores(ctx, scorer, id, scoresOf("skill-1", 3, "skill-2", 3))
	require.NoError(t, err)
	_, err = h.svc.EmployeeReview(ctx, subject, id, dto.ReviewDecisionRequest{Approved: boolPtr(true)})
	require.NoError(t, err)
	_, err = h.svc.FinalReview(ctx, hrActor, id, dto.ReviewDecisionRequest{Approved: boolPtr(true)})
	require.NoError(t, err)
}

func reportFor(report []models.TargetReport, userID string) (models.TargetReport, bool) {
	for _, line := range report {
		if line.UserID == userID {
			return line, true
		}
	}
	return models.TargetReport{}, false
}

func bulkRequest(teams ...string) dto.BulkInitiateRequest {
	return dto.BulkInitiateRequest{
		Title:        "Q1 review",
		SkillIDs:     []string{"skill-1", "skill-2"},
		IncludeTeams: teams,
	}
}

func TestInitiateBulkSkipsBusyAndExcludedUsers(t *testing.T) {
	svc, h := newCycleHarness(t)
	ctx := context.Background()
	h.initiate(t, "emp-1", nil)

	req := bulkRequest(models.AllTeams)
	req.ExcludeUserIDs = []string{"emp-3"}
	result, err := svc.InitiateBulk(ctx, hrActor, req)
	require.NoError(t, err)

	assert.Equal(t, 3, result.EligibleTargets)
	assert.Equal(t, 3, result.TotalCreated)
	assert.Equal(t, []string{"skill-1", "skill-2"}, result.Skills)
	require.Len(t, result.Report, 4)
	_, excluded := reportFor(result.Report, "emp-3")
	assert.False(t, excluded)

	busy, ok := reportFor(result.Report, "emp-1")
	require.True(t, ok)
	assert.Equal(t, models.OutcomeSkipped, busy.Outcome)
	assert.Equal(t, "already has active assessment", busy.Reason)

	for _, userID := range []string{"emp-2", "lead-1", "lead-2"} {
		line, ok := reportFor(result.Report, userID)
		require.True(t, ok, userID)
		assert.Equal(t, models.OutcomeCreated, line.Outcome, userID)
		created, err := h.store.GetByID(ctx, line.AssessmentID)
		require.NoError(t, err)
		require.NotNil(t, created.CycleID)
		assert.Equal(t, result.CycleID, *created.CycleID)
		audits, _ := h.store.ListAudits(ctx, created.ID)
		assert.Equal(t, "initiated as part of cycle: Q1 review", audits[0].Comments)
	}

	cycle, err := cycleStoreStub{memoryStore: h.store}.GetByID(ctx, result.CycleID)
	require.NoError(t, err)
	assert.Equal(t, 3, cycle.TotalAssessments)
	assert.Equal(t, []string{models.AllTeams}, []string(cycle.TargetTeams))
	assert.Equal(t, 3, h.recorder.bulk[string(models.OutcomeCreated)])
	assert.Equal(t, 1, h.recorder.bulk[string(models.OutcomeSkipped)])
}

func TestInitiateBulkRestrictsToIncludedTeams(t *testing.T) {
	svc, h := newCycleHarness(t)

	result, err := svc.InitiateBulk(context.Background(), hrActor, bulkRequest("team-b"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCreated)
	_, ok := reportFor(result.Report, "emp-3")
	assert.True(t, ok)
	_, ok = reportFor(result.Report, "lead-2")
	assert.True(t, ok)
	assert.Empty(t, h.store.byUser("emp-1"))
}

func TestInitiateBulkReportsWhenNoTargetRemains(t *testing.T) {
	svc, h := newCycleHarness(t)

	req := bulkRequest("team-b")
	req.ExcludeUserIDs = []string{"emp-3", "lead-2"}
	result, err := svc.InitiateBulk(context.Background(), hrActor, req)
	require.NoError(t, err)

	assert.Zero(t, result.EligibleTargets)
	assert.Zero(t, result.TotalCreated)
	require.Len(t, result.Report, 1)
	assert.Equal(t, models.TargetReport{Outcome: models.OutcomeSkipped, Reason: NoEligibleTargetsReason}, result.Report[0])
	assert.Equal(t, 1, h.recorder.bulk[string(models.OutcomeSkipped)])
	assert.Empty(t, h.store.byUser("emp-3"))
}

func TestInitiateBulkReportsChildFailures(t *testing.T) {
	svc, h := newCycleHarness(t)
	h.store.createErr["emp-2"] = errors.New("connection reset")
	h.store.createErr["lead-1"] = repository.ErrActiveAssessmentExists

	result, err := svc.InitiateBulk(context.Background(), hrActor, bulkRequest("team-a"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.EligibleTargets)
	assert.Equal(t, 1, result.TotalCreated)
	failed, _ := reportFor(result.Report, "emp-2")
	assert.Equal(t, models.OutcomeFailed, failed.Outcome)
	assert.NotEmpty(t, failed.Reason)
	conflict, _ := reportFor(result.Report, "lead-1")
	assert.Equal(t, models.OutcomeSkipped, conflict.Outcome)
	created, _ := reportFor(result.Report, "emp-1")
	assert.Equal(t, models.OutcomeCreated, created.Outcome)

	cycle, err := cycleStoreStub{memoryStore: h.store}.GetByID(context.Background(), result.CycleID)
	require.NoError(t, err)
	assert.Equal(t, 1, cycle.TotalAssessments)
}

func TestInitiateBulkValidatesRequest(t *testing.T) {
	svc, h := newCycleHarness(t)
	ctx := context.Background()

	_, err := svc.InitiateBulk(ctx, leadActor, bulkRequest(models.AllTeams))
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))

	req := bulkRequest(models.AllTeams)
	req.Title = ""
	_, err = svc.InitiateBulk(ctx, hrActor, req)
	assert.Equal(t, appErrors.KindValidation, appErrors.KindOf(err))

	req = bulkRequest(models.AllTeams)
	req.SkillIDs = []string{"skill-404"}
	_, err = svc.InitiateBulk(ctx, hrActor, req)
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))

	assert.Empty(t, h.store.cycles)
}

func TestCancelCycleCancelsActiveChildren(t *testing.T) {
	svc, h := newCycleHarness(t)
	ctx := context.Background()
	result, err := svc.InitiateBulk(ctx, hrActor, bulkRequest("team-a"))
	require.NoError(t, err)
	emp1, _ := reportFor(result.Report, "emp-1")
	emp2, _ := reportFor(result.Report, "emp-2")
	_, err = h.svc.SubmitLeadScores(ctx, leadActor, emp1.AssessmentID, scoresOf("skill-1", 2, "skill-2", 3))
	require.NoError(t, err)
	_, err = h.svc.Cancel(ctx, hrActor, emp2.AssessmentID, dto.CommentRequest{})
	require.NoError(t, err)

	_, err = svc.CancelCycle(ctx, leadActor, result.CycleID, dto.CommentRequest{})
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))

	cancelled, err := svc.CancelCycle(ctx, hrActor, result.CycleID, dto.CommentRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled.Cancelled)
	assert.Zero(t, cancelled.Failed)
	assert.Len(t, cancelled.Report, 2)
	assert.Equal(t, models.CycleStatusCancelled, cancelled.Cycle.Status)

	assert.Equal(t, models.AssessmentStatusCancelled, h.store.status(emp1.AssessmentID))
	audits, _ := h.store.ListAudits(ctx, emp1.AssessmentID)
	last := audits[len(audits)-1]
	assert.Equal(t, models.AuditCancelled, last.AuditType)
	assert.Equal(t, "cancelled with cycle: Q1 review", last.Comments)

	_, err = svc.CancelCycle(ctx, hrActor, result.CycleID, dto.CommentRequest{})
	assert.Equal(t, appErrors.KindInvalidState, appErrors.KindOf(err))

	_, err = svc.CancelCycle(ctx, hrActor, "missing", dto.CommentRequest{})
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
}

func TestCancelCycleReportsFailingChild(t *testing.T) {
	svc, h := newCycleHarness(t)
	ctx := context.Background()
	result, err := svc.InitiateBulk(ctx, hrActor, bulkRequest("team-b"))
	require.NoError(t, err)
	broken, _ := reportFor(result.Report, "emp-3")
	h.store.transitionErr[broken.AssessmentID] = errors.New("deadlock detected")

	cancelled, err := svc.CancelCycle(ctx, hrActor, result.CycleID, dto.CommentRequest{Comments: "budget freeze"})
	require.NoError(t, err)

	assert.Equal(t, 1, cancelled.Cancelled)
	assert.Equal(t, 1, cancelled.Failed)
	line, _ := reportFor(cancelled.Report, "emp-3")
	assert.Equal(t, models.OutcomeFailed, line.Outcome)
	assert.Equal(t, models.CycleStatusCancelled, cancelled.Cycle.Status)
	assert.Equal(t, models.AssessmentStatusLeadWriting, h.store.status(broken.AssessmentID))
}

func TestCycleCompletesWhenLastChildIsApproved(t *testing.T) {
	svc, h := newCycleHarness(t)
	ctx := context.Background()
	result, err := svc.InitiateBulk(ctx, hrActor, bulkRequest("team-b"))
	require.NoError(t, err)
	emp3, _ := reportFor(result.Report, "emp-3")
	lead2, _ := reportFor(result.Report, "lead-2")

	h.complete(t, emp3.AssessmentID, otherLead, &models.JWTClaims{UserID: "emp-3", Role: models.RoleEmployee})
	view, err := svc.GetCycle(ctx, hrActor, result.CycleID)
	require.NoError(t, err)
	assert.Equal(t, models.CycleStatusActive, view.Status)
	assert.Equal(t, 1, view.CompletedAssessments)
	assert.InDelta(t, 50.0, view.CompletionRate, 0.001)

	h.complete(t, lead2.AssessmentID, hrActor, otherLead)
	view, err = svc.GetCycle(ctx, hrActor, result.CycleID)
	require.NoError(t, err)
	assert.Equal(t, models.CycleStatusCompleted, view.Status)
	assert.InDelta(t, 100.0, view.CompletionRate, 0.001)
	assert.Len(t, view.Assessments, 2)
	assert.Len(t, view.Skills, 2)

	_, err = svc.CancelCycle(ctx, hrActor, result.CycleID, dto.CommentRequest{})
	assert.Equal(t, appErrors.KindInvalidState, appErrors.KindOf(err))
}

func TestListCyclesFiltersByStatus(t *testing.T) {
	svc, _ := newCycleHarness(t)
	ctx := context.Background()
	_, err := svc.InitiateBulk(ctx, hrActor, bulkRequest("team-b"))
	require.NoError(t, err)

	views, err := svc.ListCycles(ctx, hrActor, dto.ListCyclesQuery{Status: string(models.CycleStatusActive)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Skills, 2)

	views, err = svc.ListCycles(ctx, hrActor, dto.ListCyclesQuery{Status: string(models.CycleStatusCancelled)})
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = svc.ListCycles(ctx, hrActor, dto.ListCyclesQuery{Status: "ARCHIVED"})
	assert.Equal(t, appErrors.KindValidation, appErrors.KindOf(err))

	_, err = svc.ListCycles(ctx, empActor, dto.ListCyclesQuery{})
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))
}
