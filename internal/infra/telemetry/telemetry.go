package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	loginOutcomes   *prometheus.CounterVec
	accountsCreated prometheus.Counter
	sessionsRevoked prometheus.Counter
}

// Attach configures telemetry collectors and returns a provider handle.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	loginOutcomes := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "login_outcomes_total",
		Help:      "Total number of login attempts partitioned by outcome",
	}, []string{"outcome"})

	accountsCreated := promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created",
	})

	sessionsRevoked := promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auth",
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked",
	})

	return &Provider{
		loginOutcomes:   loginOutcomes,
		accountsCreated: accountsCreated,
		sessionsRevoked: sessionsRevoked,
	}, nil
}

// ObserveLogin records a login attempt outcome (success, mfa, email_otp,
// rejected).
func (p *Provider) ObserveLogin(outcome string) {
	if p == nil {
		return
	}
	p.loginOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveAccountCreated records a successful account creation.
func (p *Provider) ObserveAccountCreated() {
	if p == nil {
		return
	}
	p.accountsCreated.Inc()
}

// ObserveSessionRevoked records a session revocation.
func (p *Provider) ObserveSessionRevoked() {
	if p == nil {
		return
	}
	p.sessionsRevoked.Inc()
}
