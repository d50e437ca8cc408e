package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// CreateSession issues a new session for the account: a fresh random
// token, appended to the account's session list with the store's atomic
// append. A token collision at the store's unique index is a hard
// failure, never a silent retry.
func (s *AuthService) CreateSession(ctx context.Context, accountID, friendlyName string) (*domain.Session, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}

	friendlyName = strings.TrimSpace(friendlyName)
	if friendlyName == "" {
		friendlyName = defaultSessionName
	}

	tokenBytes := s.cfg.Security.SessionTokenBytes
	if tokenBytes <= 0 {
		tokenBytes = security.DefaultSessionTokenBytes
	}

	token, err := security.GenerateSessionToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := domain.Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Token:     token,
		Name:      friendlyName,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.AppendSession(ctx, accountID, session); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return nil, fmt.Errorf("session token collision: %w", err)
		}
		return nil, fmt.Errorf("append session: %w", err)
	}

	return &session, nil
}

// FetchAllSessions authorizes the caller with the combined account id +
// session token lookup and returns the account's full session list. A
// revoked token and a token presented for the wrong account fail
// identically.
func (s *AuthService) FetchAllSessions(ctx context.Context, accountID, token string) ([]domain.Session, error) {
	account, err := s.authorizeSession(ctx, accountID, token)
	if err != nil {
		return nil, err
	}
	return account.Sessions, nil
}

// RevokeSession removes the session carrying targetToken from the
// account, after authorizing the caller the same way as any other
// session-scoped read.
func (s *AuthService) RevokeSession(ctx context.Context, accountID, token, targetToken string) error {
	if targetToken == "" {
		return ErrInvalidSession
	}

	if _, err := s.authorizeSession(ctx, accountID, token); err != nil {
		return err
	}

	if err := s.store.RemoveSession(ctx, accountID, targetToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidSession
		}
		return fmt.Errorf("remove session: %w", err)
	}

	return nil
}

func (s *AuthService) authorizeSession(ctx context.Context, accountID, token string) (*domain.PartialAccount, error) {
	if accountID == "" || token == "" {
		return nil, ErrInvalidSession
	}

	account, err := s.store.FindAccountBySession(ctx, accountID, token, port.ProjectSessions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	return account, nil
}
