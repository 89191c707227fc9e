// internal/quotation/dispatch/sender.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/notification"
)

var (
	ErrNoRecipients   = errors.New("dispatch: message has no recipients")
	ErrInvalidConfig  = errors.New("dispatch: invalid configuration")
	ErrDeliveryFailed = errors.New("dispatch: delivery failed")
)

// Sender delivers one composed message.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) error
}

// Identity is the envelope sender shared by every provider.
type Identity struct {
	From     string
	FromName string
	ReplyTo  string
}

// Address renders the From header.
func (id Identity) Address() string {
	return (&mail.Address{Name: id.FromName, Address: id.From}).String()
}

// Dependencies carries the provider clients built by the caller. Only the
// one matching the configured provider is used.
type Dependencies struct {
	SES    SESAPI
	Logger logger.Logger
}

// NewSender returns the sender selected by cfg.Email.Provider.
func NewSender(cfg *config.Config, deps Dependencies) (Sender, error) {
	id := Identity{From: cfg.Email.From, FromName: cfg.Email.FromName, ReplyTo: cfg.Email.ReplyTo}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	switch cfg.Email.Provider {
	case config.EmailProviderSES:
		if deps.SES == nil {
			return nil, fmt.Errorf("%w: ses client is required", ErrInvalidConfig)
		}
		return NewSESSender(deps.SES, id, log), nil
	case config.EmailProviderSMTP:
		s := cfg.Integrations.SMTP
		return NewSMTPSender(SMTPConfig{
			Host:     s.Host,
			Port:     s.Port,
			Username: s.Username,
			Password: s.Password,
			UseTLS:   s.UseTLS,
		}, id, log), nil
	case config.EmailProviderPostmark:
		p := cfg.Integrations.Postmark
		if p.ServerToken == "" {
			return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
		}
		return NewPostmarkSender(postmark.NewClient(p.ServerToken, p.AccountToken), id, log), nil
	case config.EmailProviderLog, "":
		return NewLogSender(log), nil
	}
	return nil, fmt.Errorf("%w: email provider %q is not supported", ErrInvalidConfig, cfg.Email.Provider)
}
