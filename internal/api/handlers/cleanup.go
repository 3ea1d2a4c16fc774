package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CleanupRunner triggers a retention pass on demand.
type CleanupRunner interface {
	RunOnce(ctx context.Context) error
}

// CleanupHandler exposes the admin-gated manual cleanup trigger.
type CleanupHandler struct {
	runner CleanupRunner
}

// NewCleanupHandler creates a cleanup handler.
func NewCleanupHandler(runner CleanupRunner) *CleanupHandler {
	return &CleanupHandler{
		runner: runner,
	}
}

// TriggerCleanup runs a retention pass immediately.
func (h *CleanupHandler) TriggerCleanup(c *gin.Context) {
	if err := h.runner.RunOnce(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}
