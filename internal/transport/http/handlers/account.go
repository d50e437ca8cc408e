package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// AccountHandler exposes registration and email verification endpoints.
type AccountHandler struct {
	auth      *usecase.AuthService
	telemetry *telemetry.Provider
	log       *zap.Logger
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(auth *usecase.AuthService, tel *telemetry.Provider, log *zap.Logger) *AccountHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountHandler{auth: auth, telemetry: tel, log: log}
}

// RegisterRoutes binds account routes onto the group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/account/create", h.create)
	r.POST("/account/verify/:token", h.verify)
}

func (h *AccountHandler) create(c *gin.Context) {
	var req AccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Type: KindMalformedBody})
		return
	}

	if err := h.auth.CheckCaptcha(c.Request.Context(), req.Captcha); err != nil {
		RespondWithError(c, h.log, err)
		return
	}

	account, err := h.auth.CreateAccount(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithError(c, h.log, err)
		return
	}

	h.telemetry.ObserveAccountCreated()
	h.log.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
	)

	c.JSON(http.StatusCreated, AccountCreateResponse{
		ID:            account.ID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
	})
}

func (h *AccountHandler) verify(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		RespondWithError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
