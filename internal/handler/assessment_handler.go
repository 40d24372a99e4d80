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

type assessmentService interface {
	Initiate(ctx context.Context, actor *models.JWTClaims, req dto.InitiateAssessmentRequest) (*models.AssessmentView, error)
	SubmitLeadScores(ctx context.Context, actor *models.JWTClaims, id string, req dto.SubmitLeadScoresRequest) (*models.AssessmentView, error)
	EmployeeReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewDecisionRequest) (*models.AssessmentView, error)
	StartFinalReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.CommentRequest) (*models.AssessmentView, error)
	FinalReview(ctx context.Context, actor *models.JWTClaims, id string, req dto.ReviewDecisionRequest) (*models.AssessmentView, error)
	Cancel(ctx context.Context, actor *models.JWTClaims, id string, req dto.CommentRequest) (*models.AssessmentView, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.AssessmentView, error)
	ListForRole(ctx context.Context, actor *models.JWTClaims, query dto.ListAssessmentsQuery) ([]models.AssessmentView, int, error)
	RequiringAction(ctx context.Context, actor *models.JWTClaims) ([]models.AssessmentView, error)
}

// AssessmentHandler exposes the assessment workflow endpoints.
type AssessmentHandler struct {
	service assessmentService
}

// NewAssessmentHandler constructs the handler.
func NewAssessmentHandler(service assessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// Initiate godoc
// @Summary Initiate an assessment for one user
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body dto.InitiateAssessmentRequest true "Initiation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assessments [post]
func (h *AssessmentHandler) Initiate(c *gin.Context) {
	var req dto.InitiateAssessmentRequest
	if err := bindJSON(c, &req, "invalid assessment payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Initiate(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// List godoc
// @Summary List assessments visible to the caller
// @Tags Assessments
// @Produce json
// @Param status query string false "Status filter"
// @Param userId query string false "Subject filter"
// @Param cycleId query string false "Cycle filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /assessments [get]
func (h *AssessmentHandler) List(c *gin.Context) {
	var query dto.ListAssessmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	views, total, err := h.service.ListForRole(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pageMeta(total, query.Limit, query.Offset))
}

// Pending godoc
// @Summary List assessments awaiting the caller
// @Tags Assessments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assessments/pending [get]
func (h *AssessmentHandler) Pending(c *gin.Context) {
	views, err := h.service.RequiringAction(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views, map[string]interface{}{"total": len(views)})
}

// Get godoc
// @Summary Get an assessment with scores and audit trail
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// SubmitLeadScores godoc
// @Summary Submit the lead's scores
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param payload body dto.SubmitLeadScoresRequest true "Scores"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assessments/{id}/lead-scores [post]
func (h *AssessmentHandler) SubmitLeadScores(c *gin.Context) {
	var req dto.SubmitLeadScoresRequest
	if err := bindJSON(c, &req, "invalid scores payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.SubmitLeadScores(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// EmployeeReview godoc
// @Summary Approve or reject the lead's scores as the assessed employee
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param payload body dto.ReviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/employee-review [post]
func (h *AssessmentHandler) EmployeeReview(c *gin.Context) {
	var req dto.ReviewDecisionRequest
	if err := bindJSON(c, &req, "invalid review payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.EmployeeReview(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// StartFinalReview godoc
// @Summary Claim an employee-approved assessment for HR review
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param payload body dto.CommentRequest false "Optional comments"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/final-review/start [post]
func (h *AssessmentHandler) StartFinalReview(c *gin.Context) {
	var req dto.CommentRequest
	if err := bindOptionalJSON(c, &req, "invalid comment payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.StartFinalReview(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// FinalReview godoc
// @Summary Approve or reject an assessment as HR
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param payload body dto.ReviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/final-review [post]
func (h *AssessmentHandler) FinalReview(c *gin.Context) {
	var req dto.ReviewDecisionRequest
	if err := bindJSON(c, &req, "invalid review payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.FinalReview(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Cancel godoc
// @Summary Cancel an active assessment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param payload body dto.CommentRequest false "Optional comments"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id}/cancel [post]
func (h *AssessmentHandler) Cancel(c *gin.Context) {
	var req dto.CommentRequest
	if err := bindOptionalJSON(c, &req, "invalid comment payload"); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Cancel(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}
