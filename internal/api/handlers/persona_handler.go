package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizmentor/quizmentor/internal/services"
)

type PersonaHandler struct {
	svc services.PersonaService
}

func NewPersonaHandler(svc services.PersonaService) *PersonaHandler {
	return &PersonaHandler{svc: svc}
}

func (h *PersonaHandler) Get(c *gin.Context) {
	p, err := h.svc.GetPersona(c.Request.Context(), c.Param("persona_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PersonaHandler) List(c *gin.Context) {
	rows, err := h.svc.ListPersonas(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"personas": rows})
}

// ListRoles returns target roles, optionally scoped to a course.
func (h *PersonaHandler) ListRoles(c *gin.Context) {
	rows, err := h.svc.ListRoles(c.Request.Context(), c.Query("course_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": rows})
}
