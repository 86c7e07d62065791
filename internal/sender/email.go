package sender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"storefront/config"

	gopkgmail "gopkg.in/gomail.v2"
)

// EmailSender доставляет коды сброса пароля по SMTP.
type EmailSender struct {
	cfg config.SMTP
}

func NewEmailSender(cfg config.SMTP) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendResetCode(to, code string) error {
	body, err := s.renderBody(code)
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Сброс пароля")
	m.SetBody("text/html", body)

	d := gopkgmail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.SSL = true
	return d.DialAndSend(m)
}

func (s *EmailSender) renderBody(code string) (string, error) {
	if s.cfg.TMPLDir != "" {
		path := filepath.Join(s.cfg.TMPLDir, "password_reset.html")
		if content, err := os.ReadFile(path); err == nil {
			tmpl, err := template.New("password_reset").Parse(string(content))
			if err != nil {
				return "", err
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, map[string]any{"Code": code}); err != nil {
				return "", err
			}
			return buf.String(), nil
		}
	}
	// Без шаблона — минимальное письмо
	return fmt.Sprintf("<p>Код сброса пароля: <b>%s</b></p><p>Код действует один час.</p>", template.HTMLEscapeString(code)), nil
}
