package port

import "context"

// Mail is a rendered outbound message.
type Mail struct {
	To       string
	Title    string
	TextBody string
	HTMLBody string
}

// Mailer delivers outbound mail. Delivery transport and templating render
// are collaborators outside the auth core.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
