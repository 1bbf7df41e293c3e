package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go-blog-app/internal/config"
)

// ErrDeliveryFailed wraps any transport error while handing a contact message
// to the relay. Callers must not report success when they see it.
var ErrDeliveryFailed = errors.New("mail delivery failed")

// Message is a single contact-form submission.
type Message struct {
	Name  string
	Email string
	Phone string
	Body  string
}

// Sender dispatches a contact message to the site operator.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail over a transient SMTP connection, upgraded with
// STARTTLS and authenticated with service-held credentials. There is no
// retry and no queue; one submission is one connection.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// New creates a new SMTPMailer.
func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single plain-text message to the configured operator address.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.Host == "" || m.cfg.From == "" || m.cfg.Operator == "" {
		return fmt.Errorf("%w: smtp relay not configured", ErrDeliveryFailed)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	// The whole exchange is bounded; nothing here may hang a request forever.
	deadline := time.Now().Add(15 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	defer c.Close()

	// The channel must be encrypted before credentials are sent.
	if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("%w: starttls: %s", ErrDeliveryFailed, err)
	}
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("%w: auth: %s", ErrDeliveryFailed, err)
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	if err := c.Rcpt(m.cfg.Operator); err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	if _, err := wc.Write([]byte(buildMessage(m.cfg.From, m.cfg.Operator, msg))); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, err)
	}
	return nil
}

// buildMessage assembles the plain-text mail handed to the relay.
func buildMessage(from, to string, msg Message) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Blog Contact Message\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Name: %s\r\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\r\n", msg.Email)
	fmt.Fprintf(&b, "Phone: %s\r\n", msg.Phone)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}
