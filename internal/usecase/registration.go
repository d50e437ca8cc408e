package usecase

import (
	"context"
	"errors"
	"fmt"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/email"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// CreateAccount registers a new account: validates and normalizes the
// email, enforces the password policy, hashes the password, and inserts
// the record. When email verification is enabled a verification token is
// stored and a templated mail dispatched.
func (s *AuthService) CreateAccount(ctx context.Context, rawEmail, password string) (*domain.Account, error) {
	if err := s.ValidateEmail(rawEmail); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrPasswordPolicyViolation)
	}
	if err := s.passwordValidator.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verificationEnabled := s.cfg.Email.VerificationEnabled

	account := domain.Account{
		ID:            uuid.NewString(),
		Email:         NormalizeEmail(rawEmail),
		PasswordHash:  hash,
		EmailVerified: !verificationEnabled,
		Sessions:      []domain.Session{},
	}

	if err := s.store.InsertAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrAccountAlreadyExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if verificationEnabled {
		if err := s.sendVerificationMail(ctx, account); err != nil {
			return nil, err
		}
	}

	return &account, nil
}

// VerifyEmail consumes a verification token and marks the account's
// email as verified. The token is single use.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if s.tickets == nil {
		return fmt.Errorf("ticket store not configured")
	}

	accountID, err := s.tickets.ConsumeVerification(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("consume verification token: %w", err)
	}

	if err := s.store.MarkEmailVerified(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("mark email verified: %w", err)
	}

	return nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, account domain.Account) error {
	if s.tickets == nil || s.mailer == nil {
		return fmt.Errorf("email verification enabled without ticket store and mailer")
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	if err := s.tickets.StoreVerification(ctx, token, account.ID, defaultVerificationTTL); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	title, text, html := email.Render(s.cfg.Email.Templates.Verify, token)
	msg := port.Mail{
		To:       account.Email,
		Title:    title,
		TextBody: text,
		HTMLBody: html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	return nil
}
