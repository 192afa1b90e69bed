package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type DisputeHandler struct {
	svc services.DisputeService
}

func NewDisputeHandler(svc services.DisputeService) *DisputeHandler {
	return &DisputeHandler{svc: svc}
}

type CreateDisputeRequest struct {
	QuestionID string          `json:"question_id" binding:"required"`
	Reason     string          `json:"reason" binding:"required"`
	Context    json.RawMessage `json:"context"`
}

func (h *DisputeHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Create", "invalid request body", err))
		return
	}

	d, err := h.svc.Create(c.Request.Context(), userID, req.QuestionID, req.Reason, req.Context)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DisputeHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.svc.Get(c.Request.Context(), c.Param("dispute_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if d.UserID != userID && !isAdmin(c) {
		writeError(c, utils.E(utils.CodeForbidden, "DisputeHandler.Get", "forbidden", nil))
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DisputeHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), userID, queryInt(c, "limit", 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disputes": rows})
}

func (h *DisputeHandler) ListOpen(c *gin.Context) {
	rows, err := h.svc.ListOpen(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disputes": rows})
}

type ResolveDisputeRequest struct {
	Status     string `json:"status" binding:"required"` // resolved|rejected
	Resolution string `json:"resolution"`
}

func (h *DisputeHandler) Resolve(c *gin.Context) {
	var req ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Resolve", "invalid request body", err))
		return
	}

	d, err := h.svc.Resolve(c.Request.Context(), c.Param("dispute_id"), models.DisputeStatus(req.Status), req.Resolution)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

var attachmentTypes = map[string]string{
	".pdf": "application/pdf",
	".png": "image/png",
	".jpg": "image/jpeg",
}

func (h *DisputeHandler) Attach(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Attach", "missing multipart field 'file'", err))
		return
	}

	// basic validation
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	wantCT, allowed := attachmentTypes[ext]
	if !allowed {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Attach", "only .pdf, .png, or .jpg is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Attach", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "DisputeHandler.Attach", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if ct := http.DetectContentType(head); ct != wantCT {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DisputeHandler.Attach", "content type does not match extension", nil))
		return
	}

	// re-compose stream: head + remaining file
	reader := bytes.NewReader(head)
	r := &readJoin{a: reader, b: file}

	objectName := "disputes/" + userID + "/" + uuid.NewString() + ext

	d, err := h.svc.Attach(c.Request.Context(), c.Param("dispute_id"), userID, fh.Filename, wantCT, objectName, r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
