package domain

import "time"

// MFATicket binds a password-verified login attempt to a pending second
// factor. It authorizes completion of that login only, never resource
// access, and is destroyed on first use or expiry.
type MFATicket struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	Token          string    `json:"token"`
	AllowedMethods []string  `json:"allowed_methods"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the ticket's validity window has closed.
func (t MFATicket) Expired(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}
