package dispatch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/notification"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// mailFunc matches smtp.SendMail.
type mailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers MIME messages over SMTP, upgrading with STARTTLS when
// configured.
type SMTPSender struct {
	config   SMTPConfig
	identity Identity
	logger   logger.Logger
	now      func() time.Time
	send     mailFunc
}

func NewSMTPSender(cfg SMTPConfig, id Identity, log logger.Logger) *SMTPSender {
	s := &SMTPSender{
		config:   cfg,
		identity: id,
		logger:   log.WithFields(map[string]interface{}{"component": "smtp-sender"}),
		now:      time.Now,
	}
	s.send = smtp.SendMail
	if cfg.UseTLS {
		s.send = s.sendWithTLS
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	messageID := MessageID(s.identity.From)
	raw, err := BuildMIME(s.identity, msg, s.now(), messageID)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	// net/smtp has no context support; run it aside so cancellation returns.
	done := make(chan error, 1)
	go func() {
		done <- s.send(addr, auth, s.identity.From, msg.To, raw)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: smtp: %v", ErrDeliveryFailed, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: smtp: %v", ErrDeliveryFailed, err)
		}
	}

	s.logger.Info("Email sent via SMTP", map[string]interface{}{
		"audience":   string(msg.Audience),
		"recipients": len(msg.To),
		"messageId":  messageID,
	})
	return nil
}

func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}
