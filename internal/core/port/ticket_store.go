package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// TicketStore keeps short-lived login artifacts: MFA tickets and email
// one-time codes. Records expire on their TTL and are destroyed on first
// consume.
type TicketStore interface {
	StoreTicket(ctx context.Context, ticket domain.MFATicket, ttl time.Duration) error
	// ConsumeTicket returns the ticket for the token and deletes it.
	// Returns repository.ErrNotFound for unknown or expired tokens.
	ConsumeTicket(ctx context.Context, token string) (*domain.MFATicket, error)

	StoreCode(ctx context.Context, accountID, code string, ttl time.Duration) error
	// ConsumeCode reports whether the code matches the one stored for the
	// account, deleting it on a match.
	ConsumeCode(ctx context.Context, accountID, code string) (bool, error)

	StoreVerification(ctx context.Context, token, accountID string, ttl time.Duration) error
	// ConsumeVerification resolves an email verification token to its
	// account id and deletes it. Returns repository.ErrNotFound for
	// unknown or expired tokens.
	ConsumeVerification(ctx context.Context, token string) (string, error)
}
