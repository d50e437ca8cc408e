package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCreateSessionTokenUniqueness(t *testing.T) {
	store := newMemoryStore()
	account := seedAccount(t, store, "example@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	const n = 512
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		session, err := svc.CreateSession(context.Background(), account.ID, fmt.Sprintf("device-%d", i))
		if err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
		if _, dup := seen[session.Token]; dup {
			t.Fatalf("duplicate token after %d sessions", i)
		}
		seen[session.Token] = struct{}{}
	}
}

func TestConcurrentCreateSession(t *testing.T) {
	store := newMemoryStore()
	account := seedAccount(t, store, "example@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	const workers = 16
	tokens := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := svc.CreateSession(context.Background(), account.ID, "concurrent")
			if err != nil {
				errs[i] = err
				return
			}
			tokens[i] = session.Token
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	sessions, err := svc.FetchAllSessions(context.Background(), account.ID, tokens[0])
	if err != nil {
		t.Fatalf("fetch sessions: %v", err)
	}

	listed := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		listed[session.Token] = struct{}{}
	}
	for i, token := range tokens {
		if _, ok := listed[token]; !ok {
			t.Fatalf("token of worker %d missing from session list", i)
		}
	}
}

func TestFetchAllSessions(t *testing.T) {
	store := newMemoryStore()
	account := seedAccount(t, store, "example@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	first, err := svc.CreateSession(context.Background(), account.ID, "laptop")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	second, err := svc.CreateSession(context.Background(), account.ID, "phone")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	sessions, err := svc.FetchAllSessions(context.Background(), account.ID, first.Token)
	if err != nil {
		t.Fatalf("fetch sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Token != first.Token || sessions[1].Token != second.Token {
		t.Fatal("session list out of creation order")
	}
}

func TestFetchAllSessionsCrossAccountIsolation(t *testing.T) {
	store := newMemoryStore()
	alice := seedAccount(t, store, "alice@validemail.com", "password")
	bob := seedAccount(t, store, "bob@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	session, err := svc.CreateSession(context.Background(), alice.ID, "laptop")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Alice's token presented with Bob's account id must fail exactly
	// like a revoked token.
	_, err = svc.FetchAllSessions(context.Background(), bob.ID, session.Token)
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}

	_, err = svc.FetchAllSessions(context.Background(), alice.ID, "unknown-token")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}
}

func TestRevokeSession(t *testing.T) {
	store := newMemoryStore()
	account := seedAccount(t, store, "example@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	keep, err := svc.CreateSession(context.Background(), account.ID, "laptop")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	doomed, err := svc.CreateSession(context.Background(), account.ID, "phone")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := svc.RevokeSession(context.Background(), account.ID, keep.Token, doomed.Token); err != nil {
		t.Fatalf("revoke session: %v", err)
	}

	sessions, err := svc.FetchAllSessions(context.Background(), account.ID, keep.Token)
	if err != nil {
		t.Fatalf("fetch sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Token != keep.Token {
		t.Fatalf("unexpected surviving sessions: %+v", sessions)
	}

	// The revoked token no longer authorizes anything.
	_, err = svc.FetchAllSessions(context.Background(), account.ID, doomed.Token)
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}
}

func TestRevokeSessionRequiresAuthorization(t *testing.T) {
	store := newMemoryStore()
	alice := seedAccount(t, store, "alice@validemail.com", "password")
	bob := seedAccount(t, store, "bob@validemail.com", "password")
	svc := newTestService(t, nil, store, nil, nil, nil)

	target, err := svc.CreateSession(context.Background(), alice.ID, "laptop")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	bobSession, err := svc.CreateSession(context.Background(), bob.ID, "phone")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	err = svc.RevokeSession(context.Background(), alice.ID, bobSession.Token, target.Token)
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}

	sessions, err := svc.FetchAllSessions(context.Background(), alice.ID, target.Token)
	if err != nil {
		t.Fatalf("fetch sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected session to survive, got %d", len(sessions))
	}
}
