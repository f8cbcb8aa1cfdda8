package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender определяет интерфейс для отправки email
type Sender interface {
	// Send отправляет HTML-письмо одному получателю
	Send(to, subject, htmlBody string) error
}

// Config содержит конфигурацию SMTP сервера
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Validate проверяет конфигурацию SMTP
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Port)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// GomailSender реализует Sender поверх gomail
type GomailSender struct {
	config Config
	dialer *gomail.Dialer
}

// NewGomailSender создает SMTP отправитель
func NewGomailSender(config Config) (*GomailSender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	return &GomailSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}, nil
}

// Send отправляет HTML-письмо
func (s *GomailSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
