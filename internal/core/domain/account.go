package domain

// Account mirrors the persisted account document: one record per identity,
// sessions embedded in creation order.
type Account struct {
	ID            string    `bson:"_id" json:"id"`
	Email         string    `bson:"email" json:"email"`
	PasswordHash  string    `bson:"password_hash" json:"-"`
	EmailVerified bool      `bson:"email_verified" json:"email_verified"`
	Sessions      []Session `bson:"sessions" json:"sessions"`
}

// PartialAccount is the result of a projected lookup. Only the requested
// fields are populated; the password hash is never part of it.
type PartialAccount struct {
	ID       string    `bson:"_id"`
	Sessions []Session `bson:"sessions"`
}

// SessionByToken returns the embedded session carrying the given token.
func (a *PartialAccount) SessionByToken(token string) (Session, bool) {
	for _, session := range a.Sessions {
		if session.Token == token {
			return session, true
		}
	}
	return Session{}, false
}
