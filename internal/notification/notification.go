// Package notification tells people that a post was created.
//
// A Notifier is called after the post is committed; callers log its error and
// carry on, so implementations should not retry on their own.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"cofix/internal/config"
	"cofix/internal/models"
)

type Notifier interface {
	Send(ctx context.Context, recipient string, post models.Post) error
}

var emailTemplate = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
<p>Dear User,</p>
<p>A new issue has been created on the platform with the following details:</p>
<table>
<tr><th>Field</th><th>Details</th></tr>
<tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
<tr><td><strong>Post ID</strong></td><td>{{.PostID}}</td></tr>
<tr><td><strong>Benefit Type</strong></td><td>{{.BenefitType}}</td></tr>
<tr><td><strong>Scheme Name</strong></td><td>{{.SchemeName}}</td></tr>
<tr><td><strong>Issue Name</strong></td><td>{{.IssueName}}</td></tr>
<tr><td><strong>Description</strong></td><td>{{.Description}}</td></tr>
<tr><td><strong>Activity Description</strong></td><td>{{.ActivityDescription}}</td></tr>
<tr><td><strong>Location</strong></td><td>{{with .Location}}Latitude: {{.Lat}}, Longitude: {{.Lng}}{{else}}Not provided{{end}}</td></tr>
<tr><td><strong>Comments</strong></td><td>{{.Comment}}</td></tr>
<tr><td><strong>Image</strong></td><td>{{if .Image}}Image is encoded and can be viewed on the platform{{else}}No image{{end}}</td></tr>
<tr><td><strong>Status</strong></td><td>{{.Status}} ({{.Urgency}} urgency)</td></tr>
<tr><td><strong>Date Created</strong></td><td>{{.CreateDate.Format "02 Jan 2006 15:04"}}</td></tr>
</table>
<p>Please review the issue and take the necessary actions.</p>
<p>Best regards,<br>CoFix Platform Team</p>
</body>
</html>`))

// Render returns the subject and HTML body for post.
func Render(post models.Post) (string, string, error) {
	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, post); err != nil {
		return "", "", fmt.Errorf("render notification: %w", err)
	}
	return "New issue added: User " + post.Email, body.String(), nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPNotifier struct {
	cfg  config.SMTP
	send sendFunc
}

func NewSMTPNotifier(cfg config.SMTP) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) Send(ctx context.Context, recipient string, post models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := Render(post)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{recipient}, buildMessage(n.cfg.From, recipient, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogNotifier is used when no SMTP server is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, recipient string, post models.Post) error {
	subject, _, err := Render(post)
	if err != nil {
		return err
	}
	n.logger.Info("notification", "recipient", recipient, "subject", subject, "post_id", post.PostID)
	return nil
}

// New picks SMTP when a host is configured.
func New(cfg config.SMTP, logger *slog.Logger) Notifier {
	if cfg.Host == "" {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg)
}
