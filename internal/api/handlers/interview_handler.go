package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartInterviewRequest struct {
	CourseID  string   `json:"course_id" binding:"required"`
	Topics    []string `json:"topics"` // empty or ["random"] -> all course topics
	PersonaID string   `json:"persona_id"`
	RoleID    string   `json:"role_id"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	out, err := h.svc.Start(c.Request.Context(), services.StartInterviewInput{
		UserID:         userID,
		CourseID:       req.CourseID,
		SelectedTopics: req.Topics,
		PersonaID:      req.PersonaID,
		RoleID:         req.RoleID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	// basic authorization
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.Get", "forbidden", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       sess.ID,
		"course_id":        sess.CourseID,
		"course_name":      sess.CourseName,
		"selected_topics":  sess.SelectedTopics,
		"persona":          sess.Persona,
		"target_role":      sess.TargetRole,
		"difficulty_level": int(sess.Difficulty.Level()),
		"difficulty_name":  sess.Difficulty.Level().String(),
		"question_count":   sess.Metrics.QuestionCount,
		"skipped_count":    sess.Metrics.SkippedCount,
		"duration":         sess.Metrics.FormattedDuration(),
		"started_at":       sess.StartedAt,
		"messages":         sess.Transcript(),
	})
}

type RespondRequest struct {
	Message string `json:"message"`
	Skipped bool   `json:"skipped"`
}

func (h *InterviewHandler) Respond(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")

	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.Respond", "forbidden", nil))
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Respond", "invalid request body", err))
		return
	}
	if req.Message == "" && !req.Skipped {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Respond", "message is required", nil))
		return
	}

	out, err := h.svc.Respond(c.Request.Context(), sessionID, req.Message, req.Skipped)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")

	// authorize against the live session
	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.End", "forbidden", nil))
		return
	}

	rec, err := h.svc.End(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := int64(queryInt(c, "limit", 20))
	out, err := h.svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interviews": out})
}
