package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/query"
	"github.com/studylync/studylync/internal/scheduler"
)

// AdminHandler exposes the housekeeping jobs and cache counters.
type AdminHandler struct {
	scheduler *scheduler.Scheduler
	query     *query.Service
}

func NewAdmin(sched *scheduler.Scheduler, q *query.Service) *AdminHandler {
	return &AdminHandler{
		scheduler: sched,
		query:     q,
	}
}

// GetSchedulerJobs returns all scheduler jobs as JSON.
func (h *AdminHandler) GetSchedulerJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    h.scheduler.GetJobs(),
	})
}

// RunSchedulerJob manually triggers a scheduler job.
func (h *AdminHandler) RunSchedulerJob(c *gin.Context) {
	if err := h.scheduler.RunJobNow(c.Param("id")); err != nil {
		jobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job triggered successfully",
	})
}

// EnableSchedulerJob enables a scheduler job.
func (h *AdminHandler) EnableSchedulerJob(c *gin.Context) {
	h.setJobEnabled(c, true, "Job enabled successfully")
}

// DisableSchedulerJob disables a scheduler job.
func (h *AdminHandler) DisableSchedulerJob(c *gin.Context) {
	h.setJobEnabled(c, false, "Job disabled successfully")
}

func (h *AdminHandler) setJobEnabled(c *gin.Context, enabled bool, message string) {
	if err := h.scheduler.SetJobEnabled(c.Param("id"), enabled); err != nil {
		jobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// GetCacheStats returns hit and miss counters of the aggregate caches.
func (h *AdminHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.query.CacheStats(),
	})
}

func jobError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, scheduler.ErrJobNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
