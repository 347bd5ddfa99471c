package jobs

import (
	"fmt"

	"gopkg.in/mail.v2"
)

// Mailer sends HTML emails
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends emails through an SMTP server
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an email using gopkg.in/mail.v2
func (m *SMTPMailer) Send(to, subject, body string) error {
	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(m.newMessage(to, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) newMessage(to, subject, body string) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return msg
}
