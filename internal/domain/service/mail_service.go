package service

import "context"

// Mailer delivers moderation emails. Implementations must respect the
// context deadline: the email leg of a fanout may never stall the action
// that triggered it.
type Mailer interface {
	SendSuspensionNotice(ctx context.Context, to, productTitle, reason string) error
}
