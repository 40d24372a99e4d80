package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

type teamCacheStub struct {
	entries map[string][]byte
	sets    int
}

func newTeamCacheStub() *teamCacheStub {
	return &teamCacheStub{entries: map[string][]byte{}}
}

func (c *teamCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *teamCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func newTeamHarness(t *testing.T) (*TeamService, *workflowHarness, *teamCacheStub) {
	t.Helper()
	h := newWorkflowHarness(t)
	cache := newTeamCacheStub()
	svc := NewTeamService(h.directory, h.store, cache, time.Minute, zap.NewNop())
	svc.now = func() time.Time { return *h.clock }
	return svc, h, cache
}

func TestTeamAssessmentsAreLeadScoped(t *testing.T) {
	svc, h, _ := newTeamHarness(t)
	ctx := context.Background()
	h.initiate(t, "emp-1", nil)
	h.initiate(t, "emp-2", nil)
	h.initiate(t, "emp-3", nil)

	views, total, err := svc.TeamAssessments(ctx, leadActor, dto.ListAssessmentsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, v := range views {
		require.NotNil(t, v.Subject)
		assert.Equal(t, "lead-1", *v.Subject.LeadID)
	}

	_, _, err = svc.TeamAssessments(ctx, hrActor, dto.ListAssessmentsQuery{})
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))
}

func TestPendingTeamAssessmentsWaitOnLead(t *testing.T) {
	svc, h, _ := newTeamHarness(t)
	ctx := context.Background()
	waiting := h.initiate(t, "emp-1", nil)
	scored := h.initiate(t, "emp-2", nil)
	_, err := h.svc.SubmitLeadScores(ctx, leadActor, scored.ID, scoresOf("skill-1", 4, "skill-2", 4))
	require.NoError(t, err)

	pending, err := svc.PendingTeamAssessments(ctx, leadActor)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, waiting.ID, pending[0].ID)
}

func TestTeamMemberAssessmentsRequireMembership(t *testing.T) {
	svc, h, _ := newTeamHarness(t)
	ctx := context.Background()
	h.initiate(t, "emp-3", nil)

	_, err := svc.TeamMemberAssessments(ctx, leadActor, "emp-3")
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))

	views, err := svc.TeamMemberAssessments(ctx, otherLead, "emp-3")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Esra Employee", views[0].Subject.FullName)

	_, err = svc.TeamMemberAssessments(ctx, leadActor, "ghost")
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))
}

func TestTeamStatisticsCountsAndCaches(t *testing.T) {
	svc, h, cache := newTeamHarness(t)
	ctx := context.Background()
	first := h.initiate(t, "emp-1", nil)
	h.initiate(t, "emp-2", nil)
	h.complete(t, first.ID, leadActor, empActor)

	stats, cached, err := svc.TeamStatistics(ctx, leadActor)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, stats.TeamSize)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.AwaitingLead)
	assert.InDelta(t, 0.5, stats.CompletionRate, 0.001)
	assert.Equal(t, 1, stats.ByStatus[string(models.AssessmentStatusCompleted)])
	assert.Equal(t, 1, cache.sets)

	again, cached, err := svc.TeamStatistics(ctx, leadActor)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, stats.Total, again.Total)
	assert.Equal(t, 1, cache.sets)
}

func TestTeamSummaryIsHROnly(t *testing.T) {
	svc, h, cache := newTeamHarness(t)
	ctx := context.Background()
	active := h.initiate(t, "emp-1", nil)

	_, _, err := svc.TeamSummary(ctx, leadActor, "team-a")
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))

	_, _, err = svc.TeamSummary(ctx, hrActor, "team-z")
	assert.Equal(t, appErrors.KindNotFound, appErrors.KindOf(err))

	summary, cached, err := svc.TeamSummary(ctx, hrActor, "team-a")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Platform", summary.TeamName)
	require.Len(t, summary.Members, 3)
	var found bool
	for _, m := range summary.Members {
		if m.UserID == "emp-1" {
			found = true
			assert.Equal(t, active.ID, m.ActiveID)
			assert.Equal(t, string(models.AssessmentStatusLeadWriting), m.ActiveStatus)
			assert.Equal(t, "lead-1", m.NextApprover)
		} else {
			assert.Empty(t, m.ActiveID)
		}
	}
	assert.True(t, found)
	_, ok := cache.entries[teamSummaryKey("team-a")]
	assert.True(t, ok)
}

func TestLatestApprovedScoresVisibility(t *testing.T) {
	svc, h, _ := newTeamHarness(t)
	ctx := context.Background()
	view := h.initiate(t, "emp-1", nil)
	h.complete(t, view.ID, leadActor, empActor)

	for _, actor := range []*models.JWTClaims{hrActor, leadActor, empActor} {
		scores, err := svc.LatestApprovedScores(ctx, actor, "emp-1")
		require.NoError(t, err, actor.UserID)
		require.Len(t, scores, 2)
		assert.Equal(t, 3, scores[0].LeadScore)
		assert.Equal(t, view.ID, scores[0].AssessmentID)
	}

	_, err := svc.LatestApprovedScores(ctx, peerActor, "emp-1")
	assert.Equal(t, appErrors.KindUnauthorized, appErrors.KindOf(err))

	empty, err := svc.LatestApprovedScores(ctx, hrActor, "emp-2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
