package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

func verificationConfig() *config.AppConfig {
	cfg := testConfig()
	cfg.Email = config.EmailSettings{
		VerificationEnabled: true,
		From:                "noreply@validemail.com",
		Templates: config.TemplateSettings{
			Verify: config.Template{
				Title: "Verify your email",
				Text:  "Open {{url}} to verify your account.",
				URL:   "https://example.com/verify",
			},
		},
	}
	return cfg
}

func TestCreateAccount(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, nil, store, newMemoryTickets(), &recordingMailer{}, nil)

	account, err := svc.CreateAccount(context.Background(), "Example@ValidEmail.com", "password")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if account.Email != "example@validemail.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}
	if account.PasswordHash == "" || account.PasswordHash == "password" {
		t.Fatal("password must be stored hashed")
	}
	if !account.EmailVerified {
		t.Fatal("verification disabled, account should start verified")
	}
	if len(account.Sessions) != 0 {
		t.Fatal("new account must have no sessions")
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(t, nil, store, newMemoryTickets(), &recordingMailer{}, nil)

	if _, err := svc.CreateAccount(context.Background(), "example@validemail.com", "password"); err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err := svc.CreateAccount(context.Background(), "EXAMPLE@validemail.com", "other-password")
	if !errors.Is(err, ErrAccountAlreadyExists) {
		t.Fatalf("got %v, want ErrAccountAlreadyExists", err)
	}
}

func TestCreateAccountRejectsWeakPassword(t *testing.T) {
	svc := newTestService(t, nil, newMemoryStore(), newMemoryTickets(), &recordingMailer{}, nil)

	for _, password := range []string{"", "short"} {
		_, err := svc.CreateAccount(context.Background(), "example@validemail.com", password)
		if !errors.Is(err, ErrPasswordPolicyViolation) {
			t.Fatalf("password %q: got %v, want ErrPasswordPolicyViolation", password, err)
		}
	}
}

func TestCreateAccountDispatchesVerification(t *testing.T) {
	store := newMemoryStore()
	tickets := newMemoryTickets()
	mailer := &recordingMailer{}
	svc := newTestService(t, verificationConfig(), store, tickets, mailer, nil)

	account, err := svc.CreateAccount(context.Background(), "example@validemail.com", "password")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if account.EmailVerified {
		t.Fatal("account should start unverified")
	}

	sent := mailer.sentTo()
	if len(sent) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(sent))
	}
	if sent[0].To != account.Email {
		t.Fatalf("mail sent to %q, want %q", sent[0].To, account.Email)
	}
	if !strings.Contains(sent[0].TextBody, "https://example.com/verify?token=") {
		t.Fatalf("mail body lacks verification link: %q", sent[0].TextBody)
	}
	if len(tickets.verifications) != 1 {
		t.Fatalf("expected one stored verification token, got %d", len(tickets.verifications))
	}
}

func TestVerifyEmail(t *testing.T) {
	store := newMemoryStore()
	tickets := newMemoryTickets()
	svc := newTestService(t, verificationConfig(), store, tickets, &recordingMailer{}, nil)

	account, err := svc.CreateAccount(context.Background(), "example@validemail.com", "password")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	var token string
	for stored := range tickets.verifications {
		token = stored
	}

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if got := store.account(account.ID); !got.EmailVerified {
		t.Fatal("account not marked verified")
	}

	// Single use.
	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc := newTestService(t, verificationConfig(), newMemoryStore(), newMemoryTickets(), &recordingMailer{}, nil)

	if err := svc.VerifyEmail(context.Background(), "unknown"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}
