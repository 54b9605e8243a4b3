package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

//go:embed templates/otp.html
var templateFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templateFS, "templates/otp.html"))

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendOTP emails a verification code that is valid for ttl.
func (s *EmailSender) SendOTP(to, name, code string, ttl time.Duration) error {
	data := OTPEmailData{
		Name:             name,
		Code:             code,
		ExpiresInMinutes: int(ttl.Minutes()),
	}

	var body bytes.Buffer
	if err := otpTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your verification code: %s", code))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
