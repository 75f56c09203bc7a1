package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/utils"
)

type QueryHandler struct {
	svc services.QueryService
}

func NewQueryHandler(svc services.QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type SummarizeRequest struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language" binding:"required"`
}

type SummarizeResponse struct {
	Analysis    string `json:"analysis"`
	RecordSaved bool   `json:"record_saved"`
	Warning     string `json:"warning,omitempty"`
}

func (h *QueryHandler) Summarize(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QueryHandler.Summarize", "query and language are required", err))
		return
	}

	res, err := h.svc.Summarize(c.Request.Context(), sessionID, req.Query, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{
		Analysis:    res.Text,
		RecordSaved: res.RecordSaved,
		Warning:     recordWarning(res.RecordErr),
	})
}
