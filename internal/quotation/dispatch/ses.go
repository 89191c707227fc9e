package dispatch

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"quotation-workers/internal/common/aws"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/notification"
)

// SESAPI is satisfied by *aws.SESClient.
type SESAPI interface {
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

var _ SESAPI = (*aws.SESClient)(nil)

// SESSender delivers raw MIME through Amazon SES so attachments survive.
type SESSender struct {
	client   SESAPI
	identity Identity
	logger   logger.Logger
	now      func() time.Time
}

func NewSESSender(client SESAPI, id Identity, log logger.Logger) *SESSender {
	return &SESSender{
		client:   client,
		identity: id,
		logger:   log.WithFields(map[string]interface{}{"component": "ses-sender"}),
		now:      time.Now,
	}
}

func (s *SESSender) Send(ctx context.Context, msg notification.Message) error {
	messageID := MessageID(s.identity.From)
	raw, err := BuildMIME(s.identity, msg, s.now(), messageID)
	if err != nil {
		return err
	}

	out, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       awssdk.String(s.identity.From),
		Destinations: msg.To,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("%w: ses: %v", ErrDeliveryFailed, err)
	}

	fields := map[string]interface{}{
		"audience":   string(msg.Audience),
		"recipients": len(msg.To),
		"bytes":      len(raw),
	}
	if out != nil && out.MessageId != nil {
		fields["sesMessageId"] = *out.MessageId
	}
	s.logger.Info("Email sent via SES", fields)
	return nil
}
