package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"bestbosses/internal/platform/config"
	dErrors "bestbosses/pkg/domain-errors"
)

const (
	smtpDialTimeout = 8 * time.Second
	smtpDeadline    = 15 * time.Second
)

// SMTPDispatcher delivers rendered notifications over SMTP with STARTTLS.
type SMTPDispatcher struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPDispatcher(cfg config.SMTPConfig, logger *slog.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, logger: logger}
}

func (d *SMTPDispatcher) Send(ctx context.Context, t Type, to string, data map[string]string) error {
	rendered, err := Render(t, data)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotificationFailed, "render notification")
	}

	fromHeader := fmt.Sprintf("%s <%s>", d.cfg.FromName, d.cfg.From)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", rendered.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		rendered.HTML,
	}, "\r\n")

	d.logger.Info("sending notification email", "type", t, "to", to, "host", d.cfg.Host)

	if err := d.sendWithTimeout(to, []byte(msg)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotificationFailed, "smtp delivery")
	}

	d.logger.Info("notification email sent", "type", t, "to", to)
	return nil
}

func (d *SMTPDispatcher) sendWithTimeout(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, smtpDialTimeout)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(smtpDeadline))

	c, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: d.cfg.Host}); err != nil {
			return err
		}
	}

	if d.cfg.Username != "" {
		auth := smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(d.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
