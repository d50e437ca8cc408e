package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// memoryStore is an in-memory CredentialStore honoring the same
// semantics as the real backends: duplicate detection, combined
// id+token lookup, and appends that are atomic under concurrency.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: make(map[string]*domain.Account)}
}

func (s *memoryStore) FindAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == email {
			copied := *account
			copied.Sessions = append([]domain.Session(nil), account.Sessions...)
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryStore) FindAccountBySession(_ context.Context, accountID, token string, _ port.Projection) (*domain.PartialAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, session := range account.Sessions {
		if session.Token == token {
			return &domain.PartialAccount{
				ID:       account.ID,
				Sessions: append([]domain.Session(nil), account.Sessions...),
			}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryStore) AppendSession(_ context.Context, accountID string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, existing := range account.Sessions {
		if existing.Token == session.Token {
			return repository.ErrDuplicateToken
		}
	}
	account.Sessions = append(account.Sessions, session)
	return nil
}

func (s *memoryStore) RemoveSession(_ context.Context, accountID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, session := range account.Sessions {
		if session.Token == token {
			account.Sessions = append(account.Sessions[:i], account.Sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memoryStore) InsertAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	copied := account
	copied.Sessions = append([]domain.Session(nil), account.Sessions...)
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memoryStore) MarkEmailVerified(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	account.EmailVerified = true
	return nil
}

func (s *memoryStore) account(accountID string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil
	}
	copied := *account
	copied.Sessions = append([]domain.Session(nil), account.Sessions...)
	return &copied
}

type memoryTickets struct {
	mu            sync.Mutex
	tickets       map[string]domain.MFATicket
	codes         map[string]string
	verifications map[string]string
}

func newMemoryTickets() *memoryTickets {
	return &memoryTickets{
		tickets:       make(map[string]domain.MFATicket),
		codes:         make(map[string]string),
		verifications: make(map[string]string),
	}
}

func (s *memoryTickets) StoreTicket(_ context.Context, ticket domain.MFATicket, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.Token] = ticket
	return nil
}

func (s *memoryTickets) ConsumeTicket(_ context.Context, token string) (*domain.MFATicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.tickets, token)
	return &ticket, nil
}

func (s *memoryTickets) StoreCode(_ context.Context, accountID, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[accountID] = code
	return nil
}

func (s *memoryTickets) ConsumeCode(_ context.Context, accountID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[accountID]
	delete(s.codes, accountID)
	return ok && stored == code, nil
}

func (s *memoryTickets) StoreVerification(_ context.Context, token, accountID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifications[token] = accountID
	return nil
}

func (s *memoryTickets) ConsumeVerification(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID, ok := s.verifications[token]
	if !ok {
		return "", repository.ErrNotFound
	}
	delete(s.verifications, token)
	return accountID, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []port.Mail
}

func (m *recordingMailer) Send(_ context.Context, mail port.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) sentTo() []port.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]port.Mail(nil), m.sent...)
}

type stubCaptcha struct {
	err error
}

func (c *stubCaptcha) Verify(context.Context, string) error {
	return c.err
}
