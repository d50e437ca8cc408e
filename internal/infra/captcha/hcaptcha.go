// Package captcha talks to an hCaptcha-compatible verification endpoint.
// Only the outcome crosses back into the auth core.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

// ErrVerificationFailed indicates the provider rejected the token.
var ErrVerificationFailed = errors.New("captcha: verification failed")

// Verifier implements port.CaptchaVerifier against a siteverify endpoint.
type Verifier struct {
	client    *http.Client
	verifyURL string
	secret    string
	siteKey   string
}

// NewVerifier builds a verifier from captcha settings.
func NewVerifier(cfg config.CaptchaSettings) *Verifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Verifier{
		client:    &http.Client{Timeout: timeout},
		verifyURL: cfg.VerifyURL,
		secret:    cfg.Secret,
		siteKey:   cfg.SiteKey,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the client response token to the provider.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if v.siteKey != "" {
		form.Set("sitekey", v.siteKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha verify status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode captcha response: %w", err)
	}

	if !body.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(body.ErrorCodes, ","))
	}
	return nil
}
