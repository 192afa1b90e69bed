package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizmentor/quizmentor/internal/services"
)

type PerformanceHandler struct {
	svc services.PerformanceService
}

func NewPerformanceHandler(svc services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// ListMine returns the caller's performance records, newest first,
// optionally filtered by course.
func (h *PerformanceHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), userID, c.Query("course_id"), queryInt(c, "limit", 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": rows})
}
