package mailer

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	gomail "gopkg.in/mail.v2"
)

type smtpMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (Client, error) {
	if host == "" || fromEmail == "" {
		return nil, fmt.Errorf("smtp host and from email are required")
	}

	dialer := gomail.NewDialer(host, port, username, password)
	return &smtpMailer{dialer: dialer, fromEmail: fromEmail}, nil
}

// Send renders the template's subject and body blocks and delivers the
// message, retrying transient SMTP failures with a short backoff.
// Returns the number of attempts used.
func (m *smtpMailer) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return -1, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return -1, err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return -1, err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/html", body.String())

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if err := m.dialer.DialAndSend(msg); err != nil {
			lastErr = err
			time.Sleep(time.Second * time.Duration(i))
			continue
		}
		return i, nil
	}

	return maxRetries, fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
