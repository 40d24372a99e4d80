package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/pkg/response"
)

type skillCatalog interface {
	List(ctx context.Context) ([]models.Skill, error)
}

// SkillHandler lists the skills assessments can be built from.
type SkillHandler struct {
	skills skillCatalog
}

// NewSkillHandler constructs the handler.
func NewSkillHandler(skills skillCatalog) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List godoc
// @Summary List the skill catalogue
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skills.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, skills, map[string]interface{}{"total": len(skills)})
}
