// Package redis keeps short-lived login artifacts: MFA tickets binding a
// password-verified attempt to its pending second factor, and email
// one-time codes. Both expire on their TTL and vanish on first consume.
package redis

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/repository"
)

const defaultTicketPrefix = "auth"

// TicketStore implements port.TicketStore on Redis.
type TicketStore struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewTicketStore constructs a ticket store with the provided client and
// key prefix.
func NewTicketStore(client *red.Client, keyPrefix string) *TicketStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultTicketPrefix
	}

	return &TicketStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// StoreTicket persists an MFA ticket under its token with the supplied TTL.
func (s *TicketStore) StoreTicket(ctx context.Context, ticket domain.MFATicket, ttl time.Duration) error {
	if ticket.Token == "" {
		return errors.New("ticket token is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}

	if err := s.client.Set(ctx, s.ticketKey(ticket.Token), payload, ttl).Err(); err != nil {
		return repository.NewDatabaseError("set", "mfa_ticket", err)
	}
	return nil
}

// ConsumeTicket fetches and deletes the ticket in one round trip, so a
// ticket authorizes at most one login completion.
func (s *TicketStore) ConsumeTicket(ctx context.Context, token string) (*domain.MFATicket, error) {
	payload, err := s.client.GetDel(ctx, s.ticketKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewDatabaseError("getdel", "mfa_ticket", err)
	}

	var ticket domain.MFATicket
	if err := json.Unmarshal(payload, &ticket); err != nil {
		return nil, repository.NewDatabaseError("decode", "mfa_ticket", err)
	}

	if ticket.Expired(s.now().UTC()) {
		return nil, repository.ErrNotFound
	}
	return &ticket, nil
}

// StoreCode persists an email one-time code for the account.
func (s *TicketStore) StoreCode(ctx context.Context, accountID, code string, ttl time.Duration) error {
	switch {
	case accountID == "":
		return errors.New("account id is required")
	case code == "":
		return errors.New("code is required")
	case ttl <= 0:
		return errors.New("ttl must be positive")
	}

	if err := s.client.Set(ctx, s.codeKey(accountID), code, ttl).Err(); err != nil {
		return repository.NewDatabaseError("set", "email_otp", err)
	}
	return nil
}

// ConsumeCode compares the supplied code against the stored one. The
// stored code is deleted regardless of the comparison outcome, so a wrong
// guess burns the code instead of enabling further probing.
func (s *TicketStore) ConsumeCode(ctx context.Context, accountID, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, s.codeKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return false, nil
		}
		return false, repository.NewDatabaseError("getdel", "email_otp", err)
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

// StoreVerification maps an email verification token to its account id.
func (s *TicketStore) StoreVerification(ctx context.Context, token, accountID string, ttl time.Duration) error {
	switch {
	case token == "":
		return errors.New("token is required")
	case accountID == "":
		return errors.New("account id is required")
	case ttl <= 0:
		return errors.New("ttl must be positive")
	}

	if err := s.client.Set(ctx, s.verifyKey(token), accountID, ttl).Err(); err != nil {
		return repository.NewDatabaseError("set", "email_verification", err)
	}
	return nil
}

// ConsumeVerification resolves a verification token to its account id and
// deletes it. Returns repository.ErrNotFound for unknown or expired tokens.
func (s *TicketStore) ConsumeVerification(ctx context.Context, token string) (string, error) {
	accountID, err := s.client.GetDel(ctx, s.verifyKey(token)).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return "", repository.ErrNotFound
		}
		return "", repository.NewDatabaseError("getdel", "email_verification", err)
	}
	return accountID, nil
}

func (s *TicketStore) ticketKey(token string) string {
	return fmt.Sprintf("%s:ticket:%s", s.prefix, token)
}

func (s *TicketStore) codeKey(accountID string) string {
	return fmt.Sprintf("%s:otp:%s", s.prefix, accountID)
}

func (s *TicketStore) verifyKey(token string) string {
	return fmt.Sprintf("%s:verify:%s", s.prefix, token)
}
