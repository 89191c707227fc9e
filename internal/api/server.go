// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/ratelimit"
	"quotation-workers/internal/quotation/service"
)

const maxBodyBytes = 1 << 20

// Quotations is the orchestrator as seen by the API.
type Quotations interface {
	Submit(ctx context.Context, req models.QuotationRequest) models.SubmissionResult
	DownloadPDF(ctx context.Context, req models.QuotationRequest) (*service.Download, error)
}

// RequestValidator decodes and validates a raw request body.
type RequestValidator interface {
	ValidateJSON(raw []byte) (models.QuotationRequest, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Quotations     Quotations
	Validator      RequestValidator
	Limiter        RateLimiter
	Features       config.FeatureConfig
	Checks         map[string]Pinger
	RequestTimeout time.Duration
	Logger         logger.Logger
	Version        string
}

type Server struct {
	opts   Options
	logger logger.Logger
}

func NewServer(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Server{
		opts:   opts,
		logger: opts.Logger.WithFields(map[string]interface{}{"component": "http-api"}),
	}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/quotations", func(q chi.Router) {
		q.Use(middleware.Timeout(s.opts.RequestTimeout))
		q.Post("/", s.submitQuotation)
		q.Post("/pdf", s.downloadPDF)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Error("HTTP request", fields)
			return
		}
		s.logger.Info("HTTP request", fields)
	})
}
