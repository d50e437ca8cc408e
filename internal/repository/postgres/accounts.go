// Package postgres implements the credential store on PostgreSQL. The
// document layout is preserved: one row per account with the session list
// held in a JSONB column, so appends and removals remain single atomic
// statements rather than read-modify-write cycles.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// Store implements port.CredentialStore backed by PostgreSQL.
type Store struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewStore constructs a store backed by any executor that satisfies pgExecutor.
func NewStore(exec pgExecutor) *Store {
	return &Store{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindAccountByEmail retrieves the full account row for the email.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	stmt, args, err := s.builder.
		Select("id", "email", "password_hash", "email_verified", "sessions").
		From("auth.accounts").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	var (
		account  domain.Account
		sessions []byte
	)
	err = s.exec.QueryRow(ctx, stmt, args...).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.EmailVerified,
		&sessions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewDatabaseError("select", "account", err)
	}

	if err := json.Unmarshal(sessions, &account.Sessions); err != nil {
		return nil, repository.NewDatabaseError("decode_sessions", "account", err)
	}
	return &account, nil
}

// FindAccountBySession matches both the account id and a session token in
// the JSONB list via containment, selecting only the projected columns.
func (s *Store) FindAccountBySession(ctx context.Context, accountID, token string, proj port.Projection) (*domain.PartialAccount, error) {
	match, err := json.Marshal([]map[string]string{{"token": token}})
	if err != nil {
		return nil, fmt.Errorf("encode session filter: %w", err)
	}

	columns := []string{"id", "sessions"}
	switch proj {
	case port.ProjectSessions:
		// Only the session list, never the password hash.
	}

	stmt, args, err := s.builder.
		Select(columns...).
		From("auth.accounts").
		Where(squirrel.Eq{"id": accountID}).
		Where(squirrel.Expr("sessions @> ?::jsonb", string(match))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	var (
		partial  domain.PartialAccount
		sessions []byte
	)
	err = s.exec.QueryRow(ctx, stmt, args...).Scan(&partial.ID, &sessions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.NewDatabaseError("select", "account", err)
	}

	if err := json.Unmarshal(sessions, &partial.Sessions); err != nil {
		return nil, repository.NewDatabaseError("decode_sessions", "account", err)
	}
	return &partial, nil
}

// AppendSession concatenates the session onto the JSONB list in a single
// UPDATE, keeping concurrent appends against one account lossless.
func (s *Store) AppendSession(ctx context.Context, accountID string, session domain.Session) error {
	encoded, err := json.Marshal([]domain.Session{session})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tag, err := s.exec.Exec(ctx,
		`UPDATE auth.accounts SET sessions = sessions || $2::jsonb WHERE id = $1`,
		accountID, string(encoded),
	)
	if err != nil {
		return repository.NewDatabaseError("update", "account", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveSession rewrites the list without the revoked token in one UPDATE.
// The containment predicate makes an unknown token report not found.
func (s *Store) RemoveSession(ctx context.Context, accountID, token string) error {
	match, err := json.Marshal([]map[string]string{{"token": token}})
	if err != nil {
		return fmt.Errorf("encode session filter: %w", err)
	}

	tag, err := s.exec.Exec(ctx,
		`UPDATE auth.accounts
		 SET sessions = (
		     SELECT COALESCE(jsonb_agg(entry), '[]'::jsonb)
		     FROM jsonb_array_elements(sessions) AS entry
		     WHERE entry->>'token' <> $2
		 )
		 WHERE id = $1 AND sessions @> $3::jsonb`,
		accountID, token, string(match),
	)
	if err != nil {
		return repository.NewDatabaseError("update", "account", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// InsertAccount persists a new account row.
func (s *Store) InsertAccount(ctx context.Context, account domain.Account) error {
	if account.Sessions == nil {
		account.Sessions = []domain.Session{}
	}
	sessions, err := json.Marshal(account.Sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}

	stmt, args, err := s.builder.
		Insert("auth.accounts").
		Columns("id", "email", "password_hash", "email_verified", "sessions").
		Values(account.ID, account.Email, account.PasswordHash, account.EmailVerified, string(sessions)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := s.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repository.ErrDuplicateEmail
		}
		return repository.NewDatabaseError("insert", "account", err)
	}
	return nil
}

// MarkEmailVerified flips the verification flag on the account row.
func (s *Store) MarkEmailVerified(ctx context.Context, accountID string) error {
	stmt, args, err := s.builder.
		Update("auth.accounts").
		Set("email_verified", true).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := s.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return repository.NewDatabaseError("update", "account", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
