// Package mail delivers account activation and password reset emails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	var b strings.Builder
	fmt.Fprintf(&b, "From: %q <%s>\r\n", m.cfg.From, m.cfg.Username)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)

	if err := m.send(addr, auth, m.cfg.Username, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	slog.InfoContext(ctx, "✅ Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogMailer logs messages instead of sending them; used when SMTP is not
// configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	slog.WarnContext(ctx, "⚠️ Mail delivery disabled, dropping message", "to", msg.To, "subject", msg.Subject)
	return nil
}

var linkTemplate = template.Must(template.New("link").Parse(
	`<p>Hi {{.UserName}},</p><p>{{.Intro}}</p><p><a href="{{.Link}}">{{.Link}}</a></p><p>The link expires in one hour.</p>`,
))

func render(userName, intro, link string) (string, error) {
	var buf bytes.Buffer
	err := linkTemplate.Execute(&buf, struct{ UserName, Intro, Link string }{userName, intro, link})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ActivationMessage(to, userName, link string) (Message, error) {
	body, err := render(userName, "Please activate your account by following this link:", link)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Account Activation Email - " + userName, HTML: body}, nil
}

func PasswordResetMessage(to, userName, link string) (Message, error) {
	body, err := render(userName, "Use this link to choose a new password:", link)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Forgot Password Email - " + userName, HTML: body}, nil
}
