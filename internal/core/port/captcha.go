package port

import "context"

// CaptchaVerifier checks a client-supplied captcha response against the
// external provider. The network call lives behind this boundary.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}
