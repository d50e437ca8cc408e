package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	"github.com/arklim/social-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// SessionHandler exposes login and session management endpoints.
type SessionHandler struct {
	auth      *usecase.AuthService
	telemetry *telemetry.Provider
	log       *zap.Logger
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(auth *usecase.AuthService, tel *telemetry.Provider, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{auth: auth, telemetry: tel, log: log}
}

// RegisterRoutes binds session routes onto the group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/session/login", h.login)

	scoped := r.Group("/sessions")
	scoped.Use(middleware.RequireSessionHeaders())
	scoped.GET("", h.list)
	scoped.DELETE("/:token", h.revoke)
}

func (h *SessionHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Type: KindMalformedBody})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:        req.Email,
		Password:     req.Password,
		Challenge:    req.Challenge,
		FriendlyName: req.FriendlyName,
		Captcha:      req.Captcha,
	})
	if err != nil {
		h.telemetry.ObserveLogin("rejected")
		h.log.Info("login rejected",
			zap.String("email", logger.MaskEmail(req.Email)),
			zap.String("client_ip", logger.MaskIP(c.ClientIP())),
		)
		RespondWithError(c, h.log, err)
		return
	}

	resp := LoginResponse{Result: string(result.Kind)}
	switch result.Kind {
	case usecase.LoginSuccess:
		h.telemetry.ObserveLogin("success")
		resp.Session = result.Session
	case usecase.LoginMFA:
		h.telemetry.ObserveLogin("mfa")
		resp.Ticket = result.Ticket
		resp.AllowedMethods = result.AllowedMethods
	case usecase.LoginEmailOTP:
		h.telemetry.ObserveLogin("email_otp")
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) list(c *gin.Context) {
	accountID, token := middleware.SessionCredentials(c)

	sessions, err := h.auth.FetchAllSessions(c.Request.Context(), accountID, token)
	if err != nil {
		RespondWithError(c, h.log, err)
		return
	}

	infos := make([]domain.SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, session.Info())
	}

	c.JSON(http.StatusOK, SessionListResponse{Sessions: infos})
}

func (h *SessionHandler) revoke(c *gin.Context) {
	accountID, token := middleware.SessionCredentials(c)

	if err := h.auth.RevokeSession(c.Request.Context(), accountID, token, c.Param("token")); err != nil {
		RespondWithError(c, h.log, err)
		return
	}

	h.telemetry.ObserveSessionRevoked()
	c.Status(http.StatusNoContent)
}
