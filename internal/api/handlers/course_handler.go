package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type CourseHandler struct {
	svc services.CourseService
}

func NewCourseHandler(svc services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

type CourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CourseHandler.Create", "invalid request body", err))
		return
	}

	course, err := h.svc.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.svc.Get(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CourseHandler.Update", "invalid request body", err))
		return
	}

	course, err := h.svc.Update(c.Request.Context(), c.Param("course_id"), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("course_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListTopics(c *gin.Context) {
	topics, err := h.svc.ListTopics(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
