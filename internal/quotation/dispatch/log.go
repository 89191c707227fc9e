package dispatch

import (
	"context"

	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/notification"
)

// LogSender records messages instead of delivering them. It is the default
// provider for local runs.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log.WithFields(map[string]interface{}{"component": "log-sender"})}
}

func (l *LogSender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	l.logger.Info("Sending email", map[string]interface{}{
		"audience":    string(msg.Audience),
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
	})
	return nil
}
