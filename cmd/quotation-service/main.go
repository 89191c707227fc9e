// cmd/quotation-service/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"quotation-workers/internal/api"
	"quotation-workers/internal/common/aws"
	"quotation-workers/internal/common/camunda"
	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/database"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/common/observability"
	"quotation-workers/internal/quotation/analytics"
	"quotation-workers/internal/quotation/dispatch"
	"quotation-workers/internal/quotation/document"
	"quotation-workers/internal/quotation/intake"
	"quotation-workers/internal/quotation/notification"
	"quotation-workers/internal/quotation/ratelimit"
	"quotation-workers/internal/quotation/reference"
	"quotation-workers/internal/quotation/service"
	"quotation-workers/internal/quotation/storage"

	sq "quotation-workers/internal/workers/quotation/submit-quotation"
)

var version = "dev"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting quotation service...",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment),
		zap.String("emailProvider", cfg.Email.Provider),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracing, err := observability.NewTracerProvider(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracer init failed", zap.Error(err))
	}
	defer tracing.Shutdown()

	ctx := context.Background()
	checks := map[string]api.Pinger{}

	// --- PostgreSQL (optional; storage is best-effort) ---
	var store service.Store
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Database.Postgres.Migrate {
			if err := database.Migrate(ctx, pg.DB, log); err != nil {
				zapLog.Fatal("migrations failed", zap.Error(err))
			}
		}
		store = storage.NewPostgresStore(pg.DB, log)
		checks["postgres"] = pg
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (reference reservation and rate limiting) ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = rdb
		zapLog.Info("Redis connected successfully")
	}

	// --- Elasticsearch (analytics) ---
	var tracker *analytics.Tracker
	if cfg.Database.Elasticsearch.Enabled() {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		tracker = analytics.NewTracker(esClient.Client, cfg.Database.Elasticsearch.Index,
			cfg.Quotation.Features.EnableAnalytics, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Delivery ---
	deps := dispatch.Dependencies{Logger: log}
	if cfg.Email.Provider == config.EmailProviderSES {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		deps.SES = sesClient
	}
	sender, err := dispatch.NewSender(cfg, deps)
	if err != nil {
		zapLog.Fatal("email sender init failed", zap.Error(err))
	}

	var alerter dispatch.Alerter = dispatch.NewLogAlerter(log)
	if sns := cfg.Integrations.AWS.SNS; sns.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		alerter = dispatch.NewSNSAlerter(snsClient, sns.TopicARN, log)
	}

	// --- Quotation pipeline ---
	q := cfg.Quotation
	refOpts := []reference.Option{reference.WithLogger(log)}
	if rdb != nil {
		refOpts = append(refOpts, reference.WithReserver(
			storage.NewRedisReserver(rdb.Client),
			q.Reference.MaxAttempts,
			time.Duration(q.Reference.ReservationTTL)*time.Hour,
		))
	}

	pipeline := service.Dependencies{
		References:    reference.NewGenerator(q.Reference.Prefix, refOpts...),
		Documents:     document.NewComposer(q, log),
		Notifications: notification.NewComposer(q),
		Sender:        sender,
		Alerter:       alerter,
		Store:         store,
		Tracer:        tracing.Tracer(),
		Observability: obs,
		Logger:        log,
	}
	if tracker != nil {
		pipeline.Tracker = tracker
	}
	svc, err := service.New(service.Config{
		BrandName:       q.Company.Name,
		DispatchTimeout: config.GetDuration(cfg.Email.DispatchTimeout),
	}, pipeline)
	if err != nil {
		zapLog.Fatal("quotation service init failed", zap.Error(err))
	}

	validator, err := intake.NewValidator(q)
	if err != nil {
		zapLog.Fatal("request schema failed", zap.Error(err))
	}

	opts := api.Options{
		Quotations:     svc,
		Validator:      validator,
		Features:       q.Features,
		Checks:         checks,
		RequestTimeout: config.GetDuration(cfg.HTTP.RequestTimeout),
		Logger:         log,
		Version:        version,
	}
	if rdb != nil {
		opts.Limiter = ratelimit.NewLimiter(rdb.Client, q, log)
	}

	// --- Zeebe worker ---
	var zeebe *camunda.Client
	var jobWorker *camunda.CamundaWorker
	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, sq.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}

		handler, err := sq.NewHandler(sq.HandlerOptions{
			AppConfig: cfg,
			Submitter: svc,
			Validator: validator,
			Retrier:   zeebe,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("worker init failed", zap.Error(err))
		}
		jobWorker = camunda.NewWorker(zeebe.GetClient(), sq.TaskType, handler.GetConfig().MaxJobsActive, handler, log)
		jobWorker.Start()
		checks["zeebe"] = pingFunc(zeebe.HealthCheck)
	}

	// --- HTTP API ---
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewServer(opts).Routes(),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if jobWorker != nil {
		jobWorker.Stop(shutdownCtx)
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Quotation service stopped")
}

type pingFunc func(ctx context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }
