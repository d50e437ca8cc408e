package port

import (
	"context"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// Projection limits which account fields a lookup returns.
type Projection int

const (
	// ProjectSessions restricts the result to the sessions field. The
	// password hash is never fetched under this projection.
	ProjectSessions Projection = iota
)

// CredentialStore abstracts all account persistence so the auth service is
// storage-agnostic. Implementations are selected once at construction.
type CredentialStore interface {
	// FindAccountByEmail looks an account up by its normalized email.
	// Returns repository.ErrNotFound when no account matches.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindAccountBySession resolves an account matching BOTH the id and a
	// session token present in that account's session list. This is the
	// authorization primitive for every session-scoped read: a token
	// presented with the wrong account id fails identically to a revoked
	// token.
	FindAccountBySession(ctx context.Context, accountID, token string, proj Projection) (*domain.PartialAccount, error)

	// AppendSession adds a session to the account's list as a single
	// atomic array-append at the store level. Concurrent appends against
	// the same account must both land.
	AppendSession(ctx context.Context, accountID string, session domain.Session) error

	// RemoveSession atomically removes the session carrying the token
	// from the account's list.
	RemoveSession(ctx context.Context, accountID, token string) error

	// InsertAccount persists a new account. A taken email surfaces as
	// repository.ErrDuplicateEmail.
	InsertAccount(ctx context.Context, account domain.Account) error

	// MarkEmailVerified flips the verification flag for the account.
	MarkEmailVerified(ctx context.Context, accountID string) error
}
