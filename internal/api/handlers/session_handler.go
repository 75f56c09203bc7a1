package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/medassist/internal/api/middleware"
	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/utils"
)

const sessionTokenTTL = 12 * time.Hour

type SessionHandler struct {
	svc    services.SessionService
	secret string
}

func NewSessionHandler(svc services.SessionService, secret string) *SessionHandler {
	return &SessionHandler{svc: svc, secret: secret}
}

type StartSessionRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"` // Male|Female|Other
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Start", "invalid request body", err))
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), req.Name, req.Age, req.Gender)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := middleware.MintSessionToken(h.secret, sess.SessionID, sessionTokenTTL)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "SessionHandler.Start", "failed to issue session token", err))
		return
	}

	c.JSON(http.StatusOK, StartSessionResponse{
		SessionID: sess.SessionID,
		UserID:    sess.UserID,
		Token:     token,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
	})
}

type domainStateView struct {
	State    string               `json:"state"`
	HasImage bool                 `json:"has_image"`
	Analysis string               `json:"analysis,omitempty"`
	History  []models.ChatMessage `json:"history"`
}

type SessionStateResponse struct {
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name,omitempty"`
	Age       int             `json:"age"`
	Gender    string          `json:"gender,omitempty"`
	Report    domainStateView `json:"report"`
	Skin      domainStateView `json:"skin"`
}

func (h *SessionHandler) State(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionStateResponse{
		SessionID: sess.SessionID,
		UserID:    sess.UserID,
		Name:      sess.Name,
		Age:       sess.Age,
		Gender:    sess.Gender,
		Report:    stateView(&sess.Report),
		Skin:      stateView(&sess.Skin),
	})
}

func (h *SessionHandler) End(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := h.svc.End(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "status": "ended"})
}

func stateView(d *models.DomainState) domainStateView {
	history := d.History
	if history == nil {
		history = []models.ChatMessage{}
	}
	return domainStateView{
		State:    d.State(),
		HasImage: d.Image != nil,
		Analysis: d.Analysis,
		History:  history,
	}
}
