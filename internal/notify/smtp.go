// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SMTPConfig addresses an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// StartTLS requires the server to offer STARTTLS.
	StartTLS bool
}

// SMTPTransport delivers messages to an SMTP relay.
type SMTPTransport struct {
	cfg  SMTPConfig
	from mail.Address
	now  func() time.Time
}

// NewSMTPTransport validates cfg and creates a transport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, oops.Code("SMTP_INVALID_CONFIG").Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, oops.Code("SMTP_INVALID_CONFIG").With("port", cfg.Port).Errorf("smtp port out of range")
	}
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, oops.Code("SMTP_INVALID_CONFIG").With("from", cfg.From).Wrap(err)
	}
	return &SMTPTransport{cfg: cfg, from: *from, now: time.Now}, nil
}

// Deliver sends msg in one SMTP session. The context deadline, if any,
// bounds the whole session.
func (t *SMTPTransport) Deliver(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := t.compose(msg)
	if err != nil {
		return Permanent(err)
	}

	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return oops.With("addr", addr).Wrap(err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline) //nolint:errcheck // best effort on a fresh conn
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return oops.With("addr", addr).Wrap(err)
	}
	defer func() { _ = client.Close() }()

	if err := t.session(client, msg.To, body); err != nil {
		return oops.With("addr", addr).Wrap(err)
	}
	return nil
}

func (t *SMTPTransport) session(client *smtp.Client, to string, body []byte) error {
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	} else if t.cfg.StartTLS {
		return Permanent(fmt.Errorf("server %s does not offer STARTTLS", t.cfg.Host))
	}

	if t.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
			if err := client.Auth(auth); err != nil {
				return Permanent(fmt.Errorf("auth: %w", err))
			}
		}
	}

	if err := client.Mail(t.from.Address); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end data: %w", err)
	}
	return client.Quit()
}

// compose builds a multipart/alternative RFC 5322 message.
func (t *SMTPTransport) compose(msg Message) ([]byte, error) {
	from := t.from
	if msg.From != "" {
		parsed, err := mail.ParseAddress(msg.From)
		if err != nil {
			return nil, fmt.Errorf("from address: %w", err)
		}
		from = *parsed
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := [][2]string{
		{"From", from.String()},
		{"To", msg.To},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"Date", t.now().UTC().Format(time.RFC1123Z)},
		{"Message-ID", fmt.Sprintf("<%s@%s>", ulid.Make().String(), t.cfg.Host)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}
	if msg.Category != "" {
		headers = append(headers, [2]string{"X-Category", msg.Category})
	}

	var out bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&out, "%s: %s\r\n", h[0], h[1])
	}
	out.WriteString("\r\n")

	if err := writePart(mw, "text/plain; charset=utf-8", msg.Text); err != nil {
		return nil, err
	}
	if msg.HTML != "" {
		if err := writePart(mw, "text/html; charset=utf-8", msg.HTML); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	pw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("write part: %w", err)
	}
	if err := qp.Close(); err != nil {
		return fmt.Errorf("close part: %w", err)
	}
	return nil
}
