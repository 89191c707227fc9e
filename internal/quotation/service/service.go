// internal/quotation/service/service.go
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/common/observability"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/dispatch"
	"quotation-workers/internal/quotation/notification"
)

const (
	DefaultDispatchTimeout = 30 * time.Second

	msgSendFailed    = "Failed to send emails"
	msgComposeFailed = "Failed to prepare your proposal"
	msgInternal      = "Unknown error occurred"
)

// ReferenceSource assigns reference numbers. Reserve may claim the number
// in shared storage; Generate never does.
type ReferenceSource interface {
	Reserve(ctx context.Context, fullName string) (string, error)
	Generate(fullName string) string
}

type DocumentComposer interface {
	Compose(record models.QuotationRecord) ([]byte, error)
}

type NotificationComposer interface {
	ComposeClient(record models.QuotationRecord, pdf []byte) (notification.Message, error)
	ComposeInternal(record models.QuotationRecord, pdf []byte) (notification.Message, error)
}

// Store persists successful submissions.
type Store interface {
	Save(ctx context.Context, record models.QuotationRecord) error
}

// Tracker records analytics events.
type Tracker interface {
	TrackSubmission(ctx context.Context, record models.QuotationRecord) error
	TrackDownload(ctx context.Context, record models.QuotationRecord) error
}

// Dependencies wires the service. Store, Tracker, Alerter, Tracer and
// Observability are optional.
type Dependencies struct {
	References    ReferenceSource
	Documents     DocumentComposer
	Notifications NotificationComposer
	Sender        dispatch.Sender
	Alerter       dispatch.Alerter
	Store         Store
	Tracker       Tracker
	Tracer        trace.Tracer
	Observability *observability.Observability
	Logger        logger.Logger
}

type Config struct {
	BrandName       string
	DispatchTimeout time.Duration
	Now             func() time.Time
}

// Service runs the quotation pipeline. It holds only immutable
// collaborators; every call builds its own record and document.
type Service struct {
	cfg   Config
	deps  Dependencies
	log   logger.Logger
	trace trace.Tracer
}

func New(cfg Config, deps Dependencies) (*Service, error) {
	switch {
	case deps.References == nil:
		return nil, fmt.Errorf("service: reference source is required")
	case deps.Documents == nil:
		return nil, fmt.Errorf("service: document composer is required")
	case deps.Notifications == nil:
		return nil, fmt.Errorf("service: notification composer is required")
	case deps.Sender == nil:
		return nil, fmt.Errorf("service: sender is required")
	}

	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = DefaultDispatchTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "quotation-service"})
	if deps.Alerter == nil {
		deps.Alerter = dispatch.NewLogAlerter(log)
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("quotation-service")
	}

	return &Service{cfg: cfg, deps: deps, log: log, trace: tracer}, nil
}

// Submit runs one submission end to end. It never panics and never returns
// an error; failures are reported in the result.
func (s *Service) Submit(ctx context.Context, req models.QuotationRequest) (result models.SubmissionResult) {
	start := time.Now()
	ctx, span := s.trace.Start(ctx, "quotation.submit")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Panic during quotation submission", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			result = failure(errors.ErrCodeInternal, msgInternal)
		}

		status := "success"
		if !result.Success {
			status = "failed"
			span.SetStatus(codes.Error, result.Error)
		}
		span.SetAttributes(attribute.String("quotation.status", status))
		metrics.QuotationSubmissions.WithLabelValues(status).Inc()
		s.deps.Observability.RecordSubmission(ctx, status)
		s.deps.Observability.RecordSubmissionDuration(ctx, time.Since(start), status)
	}()

	return s.submit(ctx, req)
}

func (s *Service) submit(ctx context.Context, req models.QuotationRequest) models.SubmissionResult {
	ref, err := s.deps.References.Reserve(ctx, req.FullName)
	if err != nil {
		s.log.Error("Reference reservation failed", map[string]interface{}{"error": err.Error()})
		return failureFrom(err, msgInternal)
	}

	record := models.NewQuotationRecord(req, ref, s.cfg.Now())
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("quotation.reference", ref),
		attribute.String("quotation.service_type", string(req.ServiceType)),
	)
	log := s.log.WithFields(map[string]interface{}{"referenceNumber": ref})

	messages, err := s.compose(ctx, record)
	if err != nil {
		log.Error("Quotation composition failed", map[string]interface{}{"error": err.Error()})
		return failureFrom(err, msgComposeFailed)
	}

	outcomes := s.dispatchAll(ctx, messages)
	sent := 0
	timedOut := false
	for _, o := range outcomes {
		if o.Sent() {
			sent++
		} else if o.Error == errDispatchTimeout.Error() {
			timedOut = true
		}
	}

	if sent != len(outcomes) {
		if sent > 0 {
			metrics.QuotationPartialFailures.Inc()
			if err := s.deps.Alerter.PartialFailure(context.WithoutCancel(ctx), ref, outcomes); err != nil {
				log.Error("Partial dispatch alert failed", map[string]interface{}{"error": err.Error()})
			}
		}
		log.Error("Quotation dispatch failed", map[string]interface{}{
			"sent":     sent,
			"outcomes": outcomes,
		})
		code := errors.ErrCodeNotificationSendFailed
		if timedOut {
			code = errors.ErrCodeDispatchTimeout
		}
		return failure(code, msgSendFailed)
	}

	// Delivery already happened; storage and analytics must not depend on
	// the caller staying connected.
	after := context.WithoutCancel(ctx)
	if s.deps.Store != nil {
		if err := s.deps.Store.Save(after, record); err != nil {
			metrics.QuotationStorageFailures.Inc()
			log.Error("Quotation storage failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if s.deps.Tracker != nil {
		if err := s.deps.Tracker.TrackSubmission(after, record); err != nil {
			log.Warn("Analytics tracking failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("Quotation submitted", map[string]interface{}{
		"companyName":     record.CompanyName,
		"projectCategory": record.ProjectCategory,
		"serviceType":     string(record.ServiceType),
	})
	return models.SubmissionResult{Success: true, ReferenceNumber: ref}
}

// compose builds the document and both messages. Nothing is dispatched
// unless all three succeed.
func (s *Service) compose(ctx context.Context, record models.QuotationRecord) (messages []notification.Message, err error) {
	_, span := s.trace.Start(ctx, "quotation.compose")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Panic during composition", map[string]interface{}{
				"referenceNumber": record.ReferenceNumber,
				"panic":           fmt.Sprint(r),
			})
			messages = nil
			err = errors.NewDocumentCompositionError(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "composition failed")
		}
	}()

	pdf, err := s.deps.Documents.Compose(record)
	if err != nil {
		return nil, errors.NewDocumentCompositionError(err)
	}
	if len(pdf) == 0 {
		return nil, errors.NewDocumentCompositionError(fmt.Errorf("empty document"))
	}
	s.deps.Observability.RecordDocumentSize(ctx, len(pdf))

	client, err := s.deps.Notifications.ComposeClient(record, pdf)
	if err != nil {
		return nil, errors.NewNotificationComposeError(string(models.AudienceClient), err)
	}
	internal, err := s.deps.Notifications.ComposeInternal(record, pdf)
	if err != nil {
		return nil, errors.NewNotificationComposeError(string(models.AudienceInternal), err)
	}
	return []notification.Message{client, internal}, nil
}

func failure(code errors.ErrorCode, message string) models.SubmissionResult {
	return models.SubmissionResult{Success: false, Error: message, Code: string(code)}
}

func failureFrom(err error, fallback string) models.SubmissionResult {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return failure(stdErr.Code, fallback)
	}
	return failure(errors.ErrCodeInternal, fallback)
}
