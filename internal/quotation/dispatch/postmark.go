package dispatch

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"

	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/notification"
)

// PostmarkAPI is satisfied by *postmark.Client.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender delivers through Postmark's transactional API.
type PostmarkSender struct {
	client   PostmarkAPI
	identity Identity
	logger   logger.Logger
}

func NewPostmarkSender(client PostmarkAPI, id Identity, log logger.Logger) *PostmarkSender {
	return &PostmarkSender{
		client:   client,
		identity: id,
		logger:   log.WithFields(map[string]interface{}{"component": "postmark-sender"}),
	}
}

func (p *PostmarkSender) Send(ctx context.Context, msg notification.Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	attachments := make([]postmark.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:        p.identity.Address(),
		ReplyTo:     p.identity.ReplyTo,
		To:          strings.Join(msg.To, ","),
		Subject:     msg.Subject,
		Tag:         "quotation-" + string(msg.Audience),
		HTMLBody:    msg.HTMLBody,
		TextBody:    msg.TextBody,
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("%w: postmark: %v", ErrDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error: %d - %s", ErrDeliveryFailed, resp.ErrorCode, resp.Message)
	}

	p.logger.Info("Email sent via Postmark", map[string]interface{}{
		"audience":   string(msg.Audience),
		"recipients": len(msg.To),
		"messageId":  resp.MessageID,
	})
	return nil
}
