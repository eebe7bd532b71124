package mailer

import "context"

// Sender delivers a fully prepared Email through a provider.
// Implementations make exactly one delivery attempt per call.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
