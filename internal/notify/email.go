package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// sendMailHook allows tests to override SMTP sending behavior.
var sendMailHook = smtp.SendMail

// Email sends notifications via SMTP.
type Email struct {
	Host, User, Pass string
	Port             int
	From             string
	To               []string
	Title            string
}

// Name returns the notifier backend name.
func (e *Email) Name() string { return "Email" }

// Send emails message to every recipient in To. The context is not consulted:
// net/smtp has no cancellation hook.
func (e *Email) Send(ctx context.Context, message string) error {
	if len(e.To) == 0 {
		return fmt.Errorf("email: no recipients configured")
	}
	from := e.From
	if from == "" {
		from = e.User
	}
	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	var auth smtp.Auth
	if e.User != "" {
		auth = smtp.PlainAuth("", e.User, e.Pass, e.Host)
	}
	header := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n",
		from,
		strings.Join(e.To, ","),
		titleOr(e.Title),
	)
	if err := sendMailHook(addr, auth, from, e.To, []byte(header+message)); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}
