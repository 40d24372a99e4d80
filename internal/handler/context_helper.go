package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/skill-assessment-api/internal/middleware"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// bindJSON decodes a required JSON body.
func bindJSON(c *gin.Context, dest interface{}, message string) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation, message)
	}
	return nil
}

// bindOptionalJSON decodes a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, dest interface{}, message string) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return appErrors.Wrap(err, appErrors.ErrValidation, message)
	}
	return nil
}

func pageMeta(total, limit, offset int) map[string]interface{} {
	return map[string]interface{}{"total": total, "limit": limit, "offset": offset}
}

func cacheHeader(c *gin.Context, hit bool) {
	c.Header("X-Cache", map[bool]string{true: "HIT", false: "MISS"}[hit])
}
