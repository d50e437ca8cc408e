package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Session-scoped requests authenticate with an account id and a session
// token together; the token alone never authorizes anything.
const (
	AccountIDHeader    = "X-Account-Id"
	SessionTokenHeader = "X-Session-Token"

	accountIDKey    = "auth_account_id"
	sessionTokenKey = "auth_session_token"
)

// RequireSessionHeaders rejects requests lacking either session
// credential header. The combined id+token pair is validated against the
// store by the operation itself, not here.
func RequireSessionHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := strings.TrimSpace(c.GetHeader(AccountIDHeader))
		token := strings.TrimSpace(c.GetHeader(SessionTokenHeader))

		if accountID == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"type": "InvalidSession"})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// SessionCredentials returns the account id and session token extracted
// by RequireSessionHeaders.
func SessionCredentials(c *gin.Context) (accountID, token string) {
	return c.GetString(accountIDKey), c.GetString(sessionTokenKey)
}
