package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck probes a single dependency.
type ReadinessCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check ReadinessCheck
}

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	checks    []namedCheck
}

// HealthOption configures optional HealthHandler behaviour.
type HealthOption func(*HealthHandler)

// WithReadinessCheck registers a named dependency probe for /readyz.
func WithReadinessCheck(name string, check ReadinessCheck) HealthOption {
	return func(h *HealthHandler) {
		if check != nil {
			h.checks = append(h.checks, namedCheck{name: name, check: check})
		}
	}
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(opts ...HealthOption) *HealthHandler {
	handler := &HealthHandler{startedAt: time.Now().UTC()}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Status reports liveness.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	})
}

// Readiness probes each registered dependency and reports per-check
// results. Any failing check turns the response into a 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	resp := ReadinessResponse{Status: "ready"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}

	for _, probe := range h.checks {
		if err := probe.check(ctx); err != nil {
			resp.Checks[probe.name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[probe.name] = "ok"
	}

	c.JSON(status, resp)
}
