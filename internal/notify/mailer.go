package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/Glx28/billigst-mat/internal/config"
)

// Mailer delivers a rendered digest. The HTML body may be empty, in
// which case a plain-text message is sent.
type Mailer interface {
	Send(ctx context.Context, subject, text, html string) error
}

// Configured reports whether the SMTP settings are complete enough to
// send mail. An unconfigured run prints the digest instead of sending.
func Configured(cfg config.SMTPConfig) bool {
	return strings.TrimSpace(cfg.Host) != "" &&
		strings.TrimSpace(cfg.User) != "" &&
		strings.TrimSpace(cfg.Password) != "" &&
		strings.TrimSpace(cfg.To) != ""
}

// SMTPMailer sends digests through a STARTTLS SMTP server.
type SMTPMailer struct {
	addr   string
	host   string
	from   string
	to     []string
	auth   smtp.Auth
	tlsCfg *tls.Config
}

// NewSMTPMailer builds a mailer from the notify configuration. The
// sender address is the authenticated user.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("mailer: host is required")
	}
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		return nil, errors.New("mailer: user is required")
	}

	var to []string
	for _, addr := range strings.Split(cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, errors.New("mailer: at least one recipient is required")
	}

	port := cfg.Port
	if port <= 0 {
		port = 587
	}

	var auth smtp.Auth
	if strings.TrimSpace(cfg.Password) != "" {
		auth = smtp.PlainAuth("", user, strings.TrimSpace(cfg.Password), host)
	}

	return &SMTPMailer{
		addr:   net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		host:   host,
		from:   user,
		to:     to,
		auth:   auth,
		tlsCfg: &tls.Config{ServerName: host},
	}, nil
}

// Send delivers the digest to every configured recipient.
func (m *SMTPMailer) Send(ctx context.Context, subject, text, html string) error {
	if m == nil {
		return errors.New("mailer: smtp mailer is nil")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	message, err := buildMessage(m.from, m.to, subject, text, html)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.send(message)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (m *SMTPMailer) send(message []byte) error {
	conn, err := net.Dial("tcp", m.addr)
	if err != nil {
		return fmt.Errorf("mailer: dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("mailer: create smtp client: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(m.tlsCfg); err != nil {
		return fmt.Errorf("mailer: starttls: %w", err)
	}
	if m.auth != nil {
		if err := client.Auth(m.auth); err != nil {
			return fmt.Errorf("mailer: authenticate: %w", err)
		}
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("mailer: set from: %w", err)
	}
	for _, rcpt := range m.to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mailer: set recipient %s: %w", rcpt, err)
		}
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer: get data writer: %w", err)
	}
	if _, err := wc.Write(message); err != nil {
		wc.Close()
		return fmt.Errorf("mailer: write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("mailer: close writer: %w", err)
	}
	return client.Quit()
}

// buildMessage assembles a multipart/alternative MIME message with a
// plain-text part and an optional HTML part.
func buildMessage(from string, to []string, subject, text, html string) ([]byte, error) {
	var msg strings.Builder
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	writePart := func(contentType, content string) error {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type": {contentType + "; charset=utf-8"},
		})
		if err != nil {
			return err
		}
		_, err = pw.Write([]byte(content))
		return err
	}

	if err := writePart("text/plain", text); err != nil {
		return nil, fmt.Errorf("mailer: build message: %w", err)
	}
	if html != "" {
		if err := writePart("text/html", html); err != nil {
			return nil, fmt.Errorf("mailer: build message: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("mailer: build message: %w", err)
	}

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary(),
	}
	for _, h := range headers {
		msg.WriteString(h)
		msg.WriteString("\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(body.String())
	return []byte(msg.String()), nil
}
