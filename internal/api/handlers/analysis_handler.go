package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/utils"
)

// AnalysisHandler serves one image workflow; the same handler type is
// mounted under /report and /skin with the matching service.
type AnalysisHandler struct {
	svc  services.AnalysisService
	name string // "ReportHandler" | "SkinHandler", for error ops
}

func NewAnalysisHandler(svc services.AnalysisService, name string) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, name: name}
}

func (h *AnalysisHandler) Upload(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	op := h.name + ".Upload"

	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'image'", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .png, .jpg, and .jpeg are allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	// sniff the real content type, extensions lie
	ct := http.DetectContentType(data)
	if ct != "image/png" && ct != "image/jpeg" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be PNG or JPEG)", nil))
		return
	}

	sess, err := h.svc.UploadImage(c.Request.Context(), sessionID, data, ct)
	if err != nil {
		writeError(c, err)
		return
	}

	domain := &sess.Report
	if h.name == "SkinHandler" {
		domain = &sess.Skin
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"state":      domain.State(),
	})
}

type AnalyzeRequest struct {
	Language string `json:"language" binding:"required"`
}

type AnalyzeResponse struct {
	Analysis    string `json:"analysis"`
	RecordSaved bool   `json:"record_saved"`
	Warning     string `json:"warning,omitempty"`
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, h.name+".Analyze", "language is required", err))
		return
	}

	res, err := h.svc.Analyze(c.Request.Context(), sessionID, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Analysis:    res.Text,
		RecordSaved: res.RecordSaved,
		Warning:     recordWarning(res.RecordErr),
	})
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	Language string `json:"language" binding:"required"`
}

func (h *AnalysisHandler) Chat(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, h.name+".Chat", "question and language are required", err))
		return
	}

	res, err := h.svc.Chat(c.Request.Context(), sessionID, req.Question, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":  res.Answer,
		"history": res.History,
	})
}

func (h *AnalysisHandler) ClearChat(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := h.svc.ClearChat(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "history": []any{}})
}
