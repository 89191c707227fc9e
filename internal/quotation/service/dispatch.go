package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/notification"
)

var errDispatchTimeout = stderrors.New("dispatch timed out")

// dispatchAll hands every message to the sender concurrently and waits for
// all of them or for the dispatch window to close, whichever comes first.
// Every message is attempted; a leg still running when the window closes
// counts as failed.
func (s *Service) dispatchAll(ctx context.Context, messages []notification.Message) []models.DispatchOutcome {
	ctx, span := s.trace.Start(ctx, "quotation.dispatch")
	defer span.End()

	dctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	results := make([]chan models.DispatchOutcome, len(messages))
	for i, msg := range messages {
		results[i] = make(chan models.DispatchOutcome, 1)
		go func(out chan<- models.DispatchOutcome, msg notification.Message) {
			out <- s.send(dctx, msg)
		}(results[i], msg)
	}

	outcomes := make([]models.DispatchOutcome, len(messages))
	for i, ch := range results {
		select {
		case o := <-ch:
			outcomes[i] = o
		case <-dctx.Done():
			select {
			case o := <-ch:
				outcomes[i] = o
			default:
				outcomes[i] = outcome(messages[i], errDispatchTimeout, s.cfg.DispatchTimeout)
				metrics.QuotationDispatch.WithLabelValues(string(messages[i].Audience), "timeout").Inc()
			}
		}
	}

	sent := 0
	for _, o := range outcomes {
		if o.Sent() {
			sent++
		}
	}
	span.SetAttributes(attribute.Int("quotation.dispatch.sent", sent))
	return outcomes
}

func (s *Service) send(ctx context.Context, msg notification.Message) (o models.DispatchOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o = outcome(msg, fmt.Errorf("sender panic: %v", r), time.Since(start))
		}
		metrics.QuotationDispatch.WithLabelValues(string(msg.Audience), o.Status).Inc()
		metrics.QuotationDispatchDuration.WithLabelValues(string(msg.Audience)).Observe(o.Duration.Seconds())
	}()

	err := s.deps.Sender.Send(ctx, msg)
	if err != nil && stderrors.Is(err, context.DeadlineExceeded) {
		err = errDispatchTimeout
	}
	return outcome(msg, err, time.Since(start))
}

func outcome(msg notification.Message, err error, d time.Duration) models.DispatchOutcome {
	o := models.DispatchOutcome{
		Audience:   msg.Audience,
		Recipients: msg.To,
		Status:     models.DispatchStatusSent,
		Duration:   d,
	}
	if err != nil {
		o.Status = models.DispatchStatusFailed
		o.Error = err.Error()
	}
	return o
}
