package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type QuizHandler struct {
	svc services.QuizService
}

func NewQuizHandler(svc services.QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

type GenerateQuizRequest struct {
	CourseID   string `json:"course_id" binding:"required"`
	TopicID    string `json:"topic_id" binding:"required"`
	Count      int    `json:"count" binding:"required"`
	Difficulty int    `json:"difficulty" binding:"required"`
}

// Generate enqueues a generation job; the worker pool produces the
// questions asynchronously.
func (h *QuizHandler) Generate(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuizHandler.Generate", "invalid request body", err))
		return
	}

	err := h.svc.EnqueueGeneration(c.Request.Context(), req.CourseID, req.TopicID, req.Count, req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *QuizHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), pgrepo.QuizFilter{
		CourseID:   c.Query("course_id"),
		TopicID:    c.Query("topic_id"),
		Difficulty: queryInt(c, "difficulty", 0),
		Limit:      queryInt(c, "limit", 50),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": rows})
}

// Similar returns the nearest questions by embedding distance.
func (h *QuizHandler) Similar(c *gin.Context) {
	rows, err := h.svc.Similar(c.Request.Context(), c.Param("question_id"), queryInt(c, "limit", 5))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": rows})
}

func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("question_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type SubmitQuizRequest struct {
	CourseID        string          `json:"course_id" binding:"required"`
	Score           float64         `json:"score"`
	QuestionCount   int             `json:"question_count"`
	DurationSeconds int64           `json:"duration_seconds"`
	Breakdown       json.RawMessage `json:"breakdown"`
}

func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuizHandler.Submit", "invalid request body", err))
		return
	}

	rec, err := h.svc.Submit(c.Request.Context(), services.SubmitQuizInput{
		UserID:          userID,
		CourseID:        req.CourseID,
		Score:           req.Score,
		QuestionCount:   req.QuestionCount,
		DurationSeconds: req.DurationSeconds,
		Breakdown:       req.Breakdown,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
