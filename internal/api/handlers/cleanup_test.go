package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubCleanupRunner struct {
	calls int
	err   error
}

func (s *stubCleanupRunner) RunOnce(_ context.Context) error {
	s.calls++
	return s.err
}

func setupCleanupRouter(runner *stubCleanupRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCleanupHandler(runner)

	router := gin.New()
	router.POST("/api/v1/admin/cleanup", handler.TriggerCleanup)
	return router
}

func TestTriggerCleanup(t *testing.T) {
	runner := &stubCleanupRunner{}
	router := setupCleanupRouter(runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/cleanup", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)
}

func TestTriggerCleanup_Error(t *testing.T) {
	runner := &stubCleanupRunner{err: assert.AnError}
	router := setupCleanupRouter(runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/cleanup", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
