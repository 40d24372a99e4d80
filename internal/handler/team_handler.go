package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
	"github.com/noah-isme/skill-assessment-api/pkg/response"
)

type teamService interface {
	TeamAssessments(ctx context.Context, actor *models.JWTClaims, query dto.ListAssessmentsQuery) ([]models.AssessmentView, int, error)
	PendingTeamAssessments(ctx context.Context, actor *models.JWTClaims) ([]models.AssessmentView, error)
	TeamMemberAssessments(ctx context.Context, actor *models.JWTClaims, memberID string) ([]models.AssessmentView, error)
	TeamStatistics(ctx context.Context, actor *models.JWTClaims) (*dto.TeamStatistics, bool, error)
	TeamSummary(ctx context.Context, actor *models.JWTClaims, teamID string) (*dto.TeamSummary, bool, error)
	LatestApprovedScores(ctx context.Context, actor *models.JWTClaims, userID string) ([]models.LatestScore, error)
}

// TeamHandler serves lead and HR team views.
type TeamHandler struct {
	service teamService
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(service teamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// Assessments godoc
// @Summary List assessments of the caller's direct reports
// @Tags Team
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /team/assessments [get]
func (h *TeamHandler) Assessments(c *gin.Context) {
	var query dto.ListAssessmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	views, total, err := h.service.TeamAssessments(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pageMeta(total, query.Limit, query.Offset))
}

// Pending godoc
// @Summary List team assessments waiting on the lead
// @Tags Team
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /team/assessments/pending [get]
func (h *TeamHandler) Pending(c *gin.Context) {
	views, err := h.service.PendingTeamAssessments(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views, map[string]interface{}{"total": len(views)})
}

// MemberAssessments godoc
// @Summary List one direct report's assessment history
// @Tags Team
// @Produce json
// @Param userId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /team/members/{userId}/assessments [get]
func (h *TeamHandler) MemberAssessments(c *gin.Context) {
	views, err := h.service.TeamMemberAssessments(c.Request.Context(), claimsFromContext(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views)
}

// Statistics godoc
// @Summary Aggregate the caller's team by workflow status
// @Tags Team
// @Produce json
// @Success 200 {object} response.Envelope
// @Header 200 {string} X-Cache "HIT or MISS"
// @Router /team/statistics [get]
func (h *TeamHandler) Statistics(c *gin.Context) {
	stats, cached, err := h.service.TeamStatistics(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	cacheHeader(c, cached)
	response.OK(c, stats)
}

// Summary godoc
// @Summary Summarize a team's assessment progress
// @Tags Team
// @Produce json
// @Param teamId path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Header 200 {string} X-Cache "HIT or MISS"
// @Router /teams/{teamId}/summary [get]
func (h *TeamHandler) Summary(c *gin.Context) {
	summary, cached, err := h.service.TeamSummary(c.Request.Context(), claimsFromContext(c), c.Param("teamId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	cacheHeader(c, cached)
	response.OK(c, summary)
}

// LatestScores godoc
// @Summary Latest approved score per skill for a user
// @Tags Team
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/latest-scores [get]
func (h *TeamHandler) LatestScores(c *gin.Context) {
	scores, err := h.service.LatestApprovedScores(c.Request.Context(), claimsFromContext(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scores)
}
