// Package offline provides the no-op credential store variant. It is the
// safe default when no real backend is configured: every read reports not
// found and every write is rejected. It must never be selected for a
// deployment expected to persist data.
package offline

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// Store implements port.CredentialStore without any persistence.
type Store struct {
	log *zap.Logger
}

// NewStore constructs the offline store.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log}
}

// FindAccountByEmail always reports not found.
func (s *Store) FindAccountByEmail(_ context.Context, _ string) (*domain.Account, error) {
	s.log.Debug("offline store lookup", zap.String("operation", "find_account_by_email"))
	return nil, repository.ErrNotFound
}

// FindAccountBySession always reports not found.
func (s *Store) FindAccountBySession(_ context.Context, _, _ string, _ port.Projection) (*domain.PartialAccount, error) {
	s.log.Debug("offline store lookup", zap.String("operation", "find_account_by_session"))
	return nil, repository.ErrNotFound
}

// AppendSession rejects the write.
func (s *Store) AppendSession(_ context.Context, accountID string, _ domain.Session) error {
	s.log.Warn("offline store rejected write",
		zap.String("operation", "append_session"),
		zap.String("account_id", accountID),
	)
	return repository.ErrOfflineStore
}

// RemoveSession rejects the write.
func (s *Store) RemoveSession(_ context.Context, accountID, _ string) error {
	s.log.Warn("offline store rejected write",
		zap.String("operation", "remove_session"),
		zap.String("account_id", accountID),
	)
	return repository.ErrOfflineStore
}

// InsertAccount rejects the write.
func (s *Store) InsertAccount(_ context.Context, _ domain.Account) error {
	s.log.Warn("offline store rejected write", zap.String("operation", "insert_account"))
	return repository.ErrOfflineStore
}

// MarkEmailVerified rejects the write.
func (s *Store) MarkEmailVerified(_ context.Context, accountID string) error {
	s.log.Warn("offline store rejected write",
		zap.String("operation", "mark_email_verified"),
		zap.String("account_id", accountID),
	)
	return repository.ErrOfflineStore
}
