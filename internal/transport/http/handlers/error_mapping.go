package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/repository"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// Error kind tags surfaced at the wire.
const (
	KindInvalidCredentials   = "InvalidCredentials"
	KindInvalidSession       = "InvalidSession"
	KindInvalidEmail         = "InvalidEmail"
	KindInvalidToken         = "InvalidToken"
	KindAccountAlreadyExists = "AccountAlreadyExists"
	KindCaptchaFailed        = "CaptchaFailed"
	KindPasswordTooWeak      = "PasswordTooWeak"
	KindMalformedBody        = "MalformedBody"
	KindDatabaseError        = "DatabaseError"
	KindInternalError        = "InternalError"
)

type errorCase struct {
	err    error
	status int
	kind   string
}

// Credential-shaped failures share one kind and status so responses
// never reveal whether an email is registered. ErrNotImplemented is the
// unverifiable second-factor branch and deliberately collapses into the
// same kind.
var errorCases = []errorCase{
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, KindInvalidCredentials},
	{usecase.ErrNotImplemented, http.StatusUnauthorized, KindInvalidCredentials},
	{usecase.ErrInvalidSession, http.StatusUnauthorized, KindInvalidSession},
	{usecase.ErrInvalidEmail, http.StatusBadRequest, KindInvalidEmail},
	{usecase.ErrInvalidToken, http.StatusBadRequest, KindInvalidToken},
	{usecase.ErrCaptchaFailed, http.StatusBadRequest, KindCaptchaFailed},
	{usecase.ErrPasswordPolicyViolation, http.StatusBadRequest, KindPasswordTooWeak},
	{usecase.ErrAccountAlreadyExists, http.StatusConflict, KindAccountAlreadyExists},
}

// RespondWithError maps a usecase failure to its `{"type": kind}` wire
// shape. Store failures are logged with full detail server-side and
// surfaced only as their kind tag.
func RespondWithError(c *gin.Context, log *zap.Logger, err error) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}
	if log == nil {
		log = zap.NewNop()
	}

	for _, cs := range errorCases {
		if errors.Is(err, cs.err) {
			c.JSON(cs.status, ErrorResponse{Type: cs.kind})
			return
		}
	}

	if dbErr, ok := repository.AsDatabaseError(err); ok {
		log.Error("store operation failed",
			zap.String("operation", dbErr.Operation),
			zap.String("with", dbErr.With),
			zap.Error(dbErr),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Type: KindDatabaseError})
		return
	}

	log.Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Type: KindInternalError})
}
