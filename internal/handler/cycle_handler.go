package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/pkg/response"
)

type cycleService interface {
	InitiateBulk(ctx context.Context, actor *models.JWTClaims, req dto.BulkInitiateRequest) (*models.BulkInitiationResult, error)
	CancelCycle(ctx context.Context, actor *models.JWTClaims, cycleID string, req dto.CommentRequest) (*models.CycleCancellationResult, error)
	ListCycles(ctx context.Context, actor *models.JWTClaims, query dto.ListCyclesQuery) ([]models.CycleView, error)
	GetCycle(ctx context.Context, actor *models.JWTClaims, cycleID string) (*models.CycleView, error)
}

// CycleHandler exposes bulk assessment cycles.
type CycleHandler struct {
	service cycleService
}

// NewCycleHandler constructs the handler.
func NewCycleHandler(service cycleService) *CycleHandler {
	return &CycleHandler{service: service}
}

// InitiateBulk godoc
// @Summary Start an assessment cycle across teams
// @Tags Cycles
// @Accept json
// @Produce json
// @Param payload body dto.BulkInitiateRequest true "Cycle payload"
// @Success 201 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /assessment-cycles [post]
func (h *CycleHandler) InitiateBulk(c *gin.Context) {
	var req dto.BulkInitiateRequest
	if err := bindJSON(c, &req, "invalid cycle payload"); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.InitiateBulk(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List assessment cycles
// @Tags Cycles
// @Produce json
// @Param status query string false "ACTIVE, COMPLETED or CANCELLED"
// @Success 200 {object} response.Envelope
// @Router /assessment-cycles [get]
func (h *CycleHandler) List(c *gin.Context) {
	views, err := h.service.ListCycles(c.Request.Context(), claimsFromContext(c), dto.ListCyclesQuery{Status: c.Query("status")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, views, map[string]interface{}{"total": len(views)})
}

// Get godoc
// @Summary Get a cycle with progress and child assessments
// @Tags Cycles
// @Produce json
// @Param id path string true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /assessment-cycles/{id} [get]
func (h *CycleHandler) Get(c *gin.Context) {
	view, err := h.service.GetCycle(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Cancel godoc
// @Summary Cancel a cycle and its active assessments
// @Tags Cycles
// @Accept json
// @Produce json
// @Param id path string true "Cycle ID"
// @Param payload body dto.CommentRequest false "Optional comments"
// @Success 200 {object} response.Envelope
// @Router /assessment-cycles/{id}/cancel [post]
func (h *CycleHandler) Cancel(c *gin.Context) {
	var req dto.CommentRequest
	if err := bindOptionalJSON(c, &req, "invalid comment payload"); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.CancelCycle(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
