package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/medassist/internal/services"
)

type RecordHandler struct {
	svc services.RecordService
}

func NewRecordHandler(svc services.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

func (h *RecordHandler) List(c *gin.Context) {
	if _, ok := requireSessionID(c); !ok {
		return
	}

	recs, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(recs),
		"records": recs,
	})
}
