package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/skill-assessment-api/internal/service"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
	"github.com/noah-isme/skill-assessment-api/pkg/jobs"
	"github.com/noah-isme/skill-assessment-api/pkg/response"
)

type jobQueue interface {
	Enqueue(job jobs.Job) error
	Stats() jobs.Stats
}

// SchedulerHandler lets HR trigger the activation sweep outside its daily slot.
type SchedulerHandler struct {
	queue jobQueue
	now   func() time.Time
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(queue jobQueue) *SchedulerHandler {
	return &SchedulerHandler{queue: queue, now: time.Now}
}

// TriggerSweep godoc
// @Summary Queue the activation sweep for today
// @Tags Scheduler
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /scheduler/activation-sweep [post]
func (h *SchedulerHandler) TriggerSweep(c *gin.Context) {
	job := service.SweepJob(h.now())
	alreadyPending := false
	if err := h.queue.Enqueue(job); err != nil {
		if !errors.Is(err, jobs.ErrDuplicate) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal, "failed to queue activation sweep"))
			return
		}
		alreadyPending = true
	}
	response.JSON(c, http.StatusAccepted, gin.H{"jobId": job.ID, "alreadyPending": alreadyPending})
}

// Stats godoc
// @Summary Background queue counters
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduler/stats [get]
func (h *SchedulerHandler) Stats(c *gin.Context) {
	response.OK(c, h.queue.Stats())
}
