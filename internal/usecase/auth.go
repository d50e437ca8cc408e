package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email, password, or
	// challenge are incorrect. Every credential-shaped failure collapses
	// to this error so responses never reveal whether an email is
	// registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates the presented account id and session
	// token do not resolve to a live session together.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidEmail indicates the email failed syntactic validation.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrAccountAlreadyExists indicates the email is already registered.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrCaptchaFailed indicates the captcha token was missing or rejected.
	ErrCaptchaFailed = errors.New("captcha verification failed")
	// ErrInvalidToken indicates an email verification token is unknown,
	// expired, or already used.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotImplemented indicates a second-factor verification path that
	// is declared but has no verification algorithm behind it.
	ErrNotImplemented = errors.New("not implemented")
	// ErrPasswordPolicyViolation indicates the password does not satisfy
	// the configured policy.
	ErrPasswordPolicyViolation = errors.New("password does not meet policy requirements")
)

const (
	defaultMFATicketTTL    = 5 * time.Minute
	defaultEmailOTPTTL     = 10 * time.Minute
	defaultSessionName     = "Unknown"
	defaultVerificationTTL = 24 * time.Hour
)

// AuthService is the single entry point for credential and session
// operations. It holds exactly one credential store and an immutable
// configuration snapshot taken at construction.
type AuthService struct {
	cfg               *config.AppConfig
	store             port.CredentialStore
	tickets           port.TicketStore
	captcha           port.CaptchaVerifier
	mailer            port.Mailer
	passwordValidator *security.PasswordValidator
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	store port.CredentialStore,
	tickets port.TicketStore,
	captcha port.CaptchaVerifier,
	mailer port.Mailer,
	validator *security.PasswordValidator,
) (*AuthService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &AuthService{
		cfg:               cfg,
		store:             store,
		tickets:           tickets,
		captcha:           captcha,
		mailer:            mailer,
		passwordValidator: validator,
	}, nil
}

// ValidateEmail checks the email syntactically. It never checks whether
// the account exists; existence failures happen later and are shaped
// identically to wrong-password failures.
func (s *AuthService) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	// RFC 5321 allows bare local parts; require a dot in the domain so
	// addresses resolve outside a single mail host.
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.Contains(email[at+1:], ".") {
		return ErrInvalidEmail
	}

	return nil
}

// CheckCaptcha verifies the captcha token when captcha is enabled. With
// captcha disabled it always succeeds.
func (s *AuthService) CheckCaptcha(ctx context.Context, token *string) error {
	if !s.cfg.Captcha.Enabled {
		return nil
	}
	if token == nil || strings.TrimSpace(*token) == "" {
		return ErrCaptchaFailed
	}
	if s.captcha == nil {
		return ErrCaptchaFailed
	}
	if err := s.captcha.Verify(ctx, *token); err != nil {
		return ErrCaptchaFailed
	}
	return nil
}

// LoginKind discriminates the terminal outcomes of a login attempt.
type LoginKind string

const (
	// LoginSuccess carries a freshly issued session.
	LoginSuccess LoginKind = "Success"
	// LoginEmailOTP signals that a one-time code was dispatched by email
	// and the attempt is pending its submission.
	LoginEmailOTP LoginKind = "EmailOTP"
	// LoginMFA signals that a second factor is required; the result
	// carries the ticket and the allowed method names.
	LoginMFA LoginKind = "MFA"
)

// LoginInput carries the submitted login material.
type LoginInput struct {
	Email        string
	Password     string
	Challenge    string
	FriendlyName string
	Captcha      *string
}

// LoginResult is the typed outcome of a successful login decision.
type LoginResult struct {
	Kind           LoginKind
	Session        *domain.Session
	Ticket         string
	AllowedMethods []string
}

// Login runs the login decision procedure: captcha, email validation,
// account lookup, then a branch on the submitted material. Unknown
// accounts go through a full dummy hash comparison so timing and error
// shape match the wrong-password case.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.CheckCaptcha(ctx, in.Captcha); err != nil {
		return nil, err
	}
	if err := s.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.Email)

	account, err := s.store.FindAccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup account: %w", err)
		}
		account = nil
	}

	switch {
	case in.Password != "":
		return s.loginWithPassword(ctx, account, in)
	case in.Challenge != "":
		return s.loginWithChallenge(ctx, account, in)
	default:
		return s.loginWithEmailOTP(ctx, account)
	}
}

func (s *AuthService) loginWithPassword(ctx context.Context, account *domain.Account, in LoginInput) (*LoginResult, error) {
	if account == nil {
		security.DummyVerify(in.Password)
		return nil, ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(in.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if s.cfg.Security.MFAEnabled {
		return s.issueMFATicket(ctx, account)
	}

	session, err := s.CreateSession(ctx, account.ID, in.FriendlyName)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Kind: LoginSuccess, Session: session}, nil
}

// loginWithChallenge is the second-factor completion hook. The ticket and
// allowed-methods shape is defined, but no verification algorithm is
// wired behind it yet, so every submitted challenge is rejected.
func (s *AuthService) loginWithChallenge(_ context.Context, account *domain.Account, _ LoginInput) (*LoginResult, error) {
	if account == nil || !s.cfg.Security.MFAEnabled {
		return nil, ErrInvalidCredentials
	}
	return nil, ErrNotImplemented
}

func (s *AuthService) loginWithEmailOTP(ctx context.Context, account *domain.Account) (*LoginResult, error) {
	if !s.cfg.Security.EmailOTPEnabled {
		return nil, ErrInvalidCredentials
	}

	// An unknown account still yields the pending outcome; skipping the
	// dispatch silently keeps the response indistinguishable from the
	// registered case.
	if account == nil {
		return &LoginResult{Kind: LoginEmailOTP}, nil
	}

	if s.tickets == nil {
		return nil, fmt.Errorf("ticket store not configured")
	}

	code, err := security.GenerateNumericCode(8)
	if err != nil {
		return nil, fmt.Errorf("generate one-time code: %w", err)
	}

	ttl := s.cfg.Security.EmailOTPTTL
	if ttl <= 0 {
		ttl = defaultEmailOTPTTL
	}

	if err := s.tickets.StoreCode(ctx, account.ID, code, ttl); err != nil {
		return nil, fmt.Errorf("store one-time code: %w", err)
	}

	if s.mailer != nil {
		msg := port.Mail{
			To:       account.Email,
			Title:    "Your login code",
			TextBody: fmt.Sprintf("Your one-time login code is %s. It expires in %s.", code, ttl),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("send one-time code: %w", err)
		}
	}

	return &LoginResult{Kind: LoginEmailOTP}, nil
}

func (s *AuthService) issueMFATicket(ctx context.Context, account *domain.Account) (*LoginResult, error) {
	if s.tickets == nil {
		return nil, fmt.Errorf("ticket store not configured")
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate ticket token: %w", err)
	}

	ttl := s.cfg.Security.MFATicketTTL
	if ttl <= 0 {
		ttl = defaultMFATicketTTL
	}

	now := time.Now().UTC()
	ticket := domain.MFATicket{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		Token:          token,
		AllowedMethods: s.cfg.Security.MFAAllowedMethods,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}

	if err := s.tickets.StoreTicket(ctx, ticket, ttl); err != nil {
		return nil, fmt.Errorf("store ticket: %w", err)
	}

	return &LoginResult{
		Kind:           LoginMFA,
		Ticket:         ticket.Token,
		AllowedMethods: ticket.AllowedMethods,
	}, nil
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
