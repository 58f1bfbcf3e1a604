// Package mail sends invitation emails through SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends an invite code to a prospective creator.
type Mailer interface {
	SendInvite(to, invitedBy, code string) error
}

// SMTPMailer is the production Mailer backed by an SMTP server.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// InviteBody builds the plain-text invitation message.
func InviteBody(to, invitedBy, code string) string {
	return fmt.Sprintf(
		"Hello %s, you got an invite from %s to join artBucket.com. Use this code: %s to create an account. Have fun.",
		to, invitedBy, code)
}

func (m *SMTPMailer) SendInvite(to, invitedBy, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "artBucket invite")
	msg.SetBody("text/plain", InviteBody(to, invitedBy, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send invite mail: %w", err)
	}
	return nil
}
