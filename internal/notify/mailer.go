// Package notify carries outbound mail: the Mailer transport contract, the
// SMTP implementation and the chain-pull notification dispatcher.
package notify

import (
	"gopkg.in/gomail.v2"
)

// Mailer is the delivery contract. Implementations send a single message;
// batching and retry policy stay with the caller.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a single SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// Send delivers one plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
