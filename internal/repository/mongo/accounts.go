// Package mongo implements the document-store credential backend. Each
// account is a single document with its sessions embedded, so session
// mutation is a single atomic array verb on that document.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/repository"
)

const accountCollection = "accounts"

// Store implements port.CredentialStore on top of a MongoDB collection.
type Store struct {
	accounts *mongo.Collection
}

// NewStore wires the MongoDB-backed credential store.
func NewStore(db *mongo.Database) *Store {
	return &Store{accounts: db.Collection(accountCollection)}
}

// EnsureIndexes creates the uniqueness indexes the data model relies on:
// one account per email, one session per token across the whole system.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sessions.token", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

// FindAccountByEmail retrieves the full account document for the email.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := s.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewDatabaseError("find_one", "account", err)
	}
	return &account, nil
}

// FindAccountBySession matches both the account id and a session token in
// the embedded list, returning only the projected fields.
func (s *Store) FindAccountBySession(ctx context.Context, accountID, token string, proj port.Projection) (*domain.PartialAccount, error) {
	filter := bson.M{
		"_id":            accountID,
		"sessions.token": token,
	}

	opts := options.FindOne()
	switch proj {
	case port.ProjectSessions:
		opts = opts.SetProjection(bson.M{"sessions": 1})
	}

	var partial domain.PartialAccount
	err := s.accounts.FindOne(ctx, filter, opts).Decode(&partial)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewDatabaseError("find_one", "account", err)
	}
	return &partial, nil
}

// AppendSession pushes the session onto the account document. The push is
// a single mutation, so concurrent logins against the same account never
// lose an entry.
func (s *Store) AppendSession(ctx context.Context, accountID string, session domain.Session) error {
	result, err := s.accounts.UpdateByID(ctx, accountID, bson.M{
		"$push": bson.M{"sessions": session},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateToken
		}
		return repository.NewDatabaseError("update_one", "account", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveSession pulls the session carrying the token from the account.
func (s *Store) RemoveSession(ctx context.Context, accountID, token string) error {
	result, err := s.accounts.UpdateByID(ctx, accountID, bson.M{
		"$pull": bson.M{"sessions": bson.M{"token": token}},
	})
	if err != nil {
		return repository.NewDatabaseError("update_one", "account", err)
	}
	if result.MatchedCount == 0 || result.ModifiedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// InsertAccount persists a new account document.
func (s *Store) InsertAccount(ctx context.Context, account domain.Account) error {
	if account.Sessions == nil {
		account.Sessions = []domain.Session{}
	}

	_, err := s.accounts.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return repository.NewDatabaseError("insert_one", "account", err)
	}
	return nil
}

// MarkEmailVerified flips the verification flag on the account document.
func (s *Store) MarkEmailVerified(ctx context.Context, accountID string) error {
	result, err := s.accounts.UpdateByID(ctx, accountID, bson.M{
		"$set": bson.M{"email_verified": true},
	})
	if err != nil {
		return repository.NewDatabaseError("update_one", "account", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
