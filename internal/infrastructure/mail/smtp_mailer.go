package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"unimarket/pkg/errors"
)

// SMTPMailer sends moderation mail over plain SMTP. Every send is bounded by
// the configured timeout so a slow provider cannot stall the fanout that
// triggered it.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewSMTPMailer(host string, port int, username, password, from string, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		timeout: timeout,
	}
}

func (m *SMTPMailer) SendSuspensionNotice(ctx context.Context, to, productTitle, reason string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your listing %q has been suspended", productTitle))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your listing %q was suspended by a moderator.\n\nReason: %s\n\nReply to this email if you believe this was a mistake.",
		productTitle, reason,
	))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// gomail has no context support, so the send runs in its own goroutine
	// and is abandoned on deadline. The goroutine finishes on the SMTP
	// library's own socket timeouts.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Internal("Failed to send suspension email", err)
		}
		return nil
	case <-ctx.Done():
		return errors.Internal("Suspension email timed out", ctx.Err())
	}
}
