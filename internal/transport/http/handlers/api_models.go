package handlers

import (
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// LoginRequest is the login payload. Exactly one of password or
// challenge is expected; neither requests an email one-time code.
type LoginRequest struct {
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password,omitempty"`
	Challenge    string  `json:"challenge,omitempty"`
	FriendlyName string  `json:"friendly_name,omitempty"`
	Captcha      *string `json:"captcha,omitempty"`
}

// LoginResponse is tagged by the result discriminator: Success carries
// the full session including its token, MFA carries the ticket and the
// allowed method names, EmailOTP has no payload.
type LoginResponse struct {
	Result         string          `json:"result"`
	Session        *domain.Session `json:"session,omitempty"`
	Ticket         string          `json:"ticket,omitempty"`
	AllowedMethods []string        `json:"allowed_methods,omitempty"`
}

// AccountCreateRequest is the registration payload.
type AccountCreateRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Captcha  *string `json:"captcha,omitempty"`
}

// AccountCreateResponse echoes the created account's public fields.
type AccountCreateResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// SessionListResponse lists the account's sessions with tokens redacted;
// the listing is for session management, not re-authentication.
type SessionListResponse struct {
	Sessions []domain.SessionInfo `json:"sessions"`
}

// ErrorResponse classifies a failure by kind only. Internal detail never
// crosses this boundary.
type ErrorResponse struct {
	Type string `json:"type"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
