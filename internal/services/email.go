package services

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/config"
)

type EmailService struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, s.cfg.From, []string{to}, s.buildMessage(to, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// SendTeamMemberAdded notifies a user who was added to a team.
func (s *EmailService) SendTeamMemberAdded(to, teamName, addedBy, teamURL string) error {
	subject := fmt.Sprintf("You've been added to %s", teamName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to %s</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> added you to <strong>%s</strong> on Rosterdesk.</p>
			<p><a href="%s">Open the team dashboard</a></p>
		</body>
		</html>
	`, html.EscapeString(teamName), html.EscapeString(addedBy), html.EscapeString(teamName), html.EscapeString(teamURL))

	return s.Send(to, subject, body)
}
