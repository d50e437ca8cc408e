package domain

import "time"

// Session is a bearer credential plus metadata, granted by a successful
// login. It back-references its account by id only and never owns it.
type Session struct {
	ID        string    `bson:"id" json:"id"`
	AccountID string    `bson:"account_id" json:"account_id"`
	Token     string    `bson:"token" json:"token"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SessionInfo is the redacted listing view of a session. The token is
// deliberately absent: the listing endpoint manages sessions, it does not
// re-authenticate them.
type SessionInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Info returns the redacted view of the session.
func (s Session) Info() SessionInfo {
	return SessionInfo{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}
