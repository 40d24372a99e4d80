package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

type teamServiceMock struct {
	views   []models.AssessmentView
	total   int
	stats   *dto.TeamStatistics
	summary *dto.TeamSummary
	scores  []models.LatestScore
	cached  bool
	err     error
	query   dto.ListAssessmentsQuery
	target  string
}

func (m *teamServiceMock) TeamAssessments(ctx context.Context, actor *models.JWTClaims, query dto.ListAssessmentsQuery) ([]models.AssessmentView, int, error) {
	m.query = query
	return m.views, m.total, m.err
}

func (m *teamServiceMock) PendingTeamAssessments(ctx context.Context, actor *models.JWTClaims) ([]models.AssessmentView, error) {
	return m.views, m.err
}

func (m *teamServiceMock) TeamMemberAssessments(ctx context.Context, actor *models.JWTClaims, memberID string) ([]models.AssessmentView, error) {
	m.target = memberID
	return m.views, m.err
}

func (m *teamServiceMock) TeamStatistics(ctx context.Context, actor *models.JWTClaims) (*dto.TeamStatistics, bool, error) {
	return m.stats, m.cached, m.err
}

func (m *teamServiceMock) TeamSummary(ctx context.Context, actor *models.JWTClaims, teamID string) (*dto.TeamSummary, bool, error) {
	m.target = teamID
	return m.summary, m.cached, m.err
}

func (m *teamServiceMock) LatestApprovedScores(ctx context.Context, actor *models.JWTClaims, userID string) ([]models.LatestScore, error) {
	m.target = userID
	return m.scores, m.err
}

func TestTeamHandlerStatisticsCacheHeader(t *testing.T) {
	svc := &teamServiceMock{stats: &dto.TeamStatistics{LeadID: "lead-1", TeamSize: 2}}
	handler := NewTeamHandler(svc)

	c, w := newTestContext(http.MethodGet, "/team/statistics", "", leadClaims)
	handler.Statistics(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	svc.cached = true
	c, w = newTestContext(http.MethodGet, "/team/statistics", "", leadClaims)
	handler.Statistics(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestTeamHandlerSummary(t *testing.T) {
	svc := &teamServiceMock{summary: &dto.TeamSummary{TeamID: "team-a"}}
	handler := NewTeamHandler(svc)

	c, w := newTestContext(http.MethodGet, "/teams/team-a/summary", "", hrClaims)
	c.Params = gin.Params{{Key: "teamId", Value: "team-a"}}
	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "team-a", svc.target)

	svc.err = appErrors.Clone(appErrors.ErrForbidden, "team summary is HR only")
	c, w = newTestContext(http.MethodGet, "/teams/team-a/summary", "", leadClaims)
	c.Params = gin.Params{{Key: "teamId", Value: "team-a"}}
	handler.Summary(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestTeamHandlerAssessmentsAndMembers(t *testing.T) {
	svc := &teamServiceMock{views: []models.AssessmentView{{}}, total: 1}
	handler := NewTeamHandler(svc)

	c, w := newTestContext(http.MethodGet, "/team/assessments?status=COMPLETED&limit=10", "", leadClaims)
	handler.Assessments(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COMPLETED", svc.query.Status)
	assert.Equal(t, 10, svc.query.Limit)

	c, w = newTestContext(http.MethodGet, "/team/members/emp-1/assessments", "", leadClaims)
	c.Params = gin.Params{{Key: "userId", Value: "emp-1"}}
	handler.MemberAssessments(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.target)

	c, w = newTestContext(http.MethodGet, "/team/assessments/pending", "", leadClaims)
	handler.Pending(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTeamHandlerLatestScores(t *testing.T) {
	svc := &teamServiceMock{scores: []models.LatestScore{{SkillID: "skill-1", LeadScore: 3}}}
	handler := NewTeamHandler(svc)

	c, w := newTestContext(http.MethodGet, "/users/emp-1/latest-scores", "", hrClaims)
	c.Params = gin.Params{{Key: "userId", Value: "emp-1"}}
	handler.LatestScores(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.target)
	assert.Contains(t, w.Body.String(), `"leadScore":3`)
}

type skillCatalogStub struct {
	skills []models.Skill
	err    error
}

func (s skillCatalogStub) List(ctx context.Context) ([]models.Skill, error) {
	return s.skills, s.err
}

func TestSkillHandlerList(t *testing.T) {
	handler := NewSkillHandler(skillCatalogStub{skills: []models.Skill{{ID: "skill-1", Name: "Go"}}})
	c, w := newTestContext(http.MethodGet, "/skills", "", leadClaims)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skill-1"`)

	failing := NewSkillHandler(skillCatalogStub{err: errors.New("db down")})
	c, w = newTestContext(http.MethodGet, "/skills", "", leadClaims)
	failing.List(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
