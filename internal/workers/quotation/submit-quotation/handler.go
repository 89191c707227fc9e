package submitquotation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/intake"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "submit-quotation"

// Submitter runs the quotation pipeline.
type Submitter interface {
	Submit(ctx context.Context, req models.QuotationRequest) models.SubmissionResult
}

type RequestValidator interface {
	Validate(req models.QuotationRequest) error
}

// Retrier retries transient gateway failures; satisfied by *camunda.Client.
type Retrier interface {
	ExecuteWithRetry(ctx context.Context, commandFunc func(context.Context) (interface{}, error), operationName string) (interface{}, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	submitter    Submitter
	validator    RequestValidator
	retrier      Retrier
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Submitter    Submitter
	Validator    RequestValidator
	Retrier      Retrier
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	if opts.Validator == nil {
		return nil, fmt.Errorf("validator is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       log,
		submitter:    opts.Submitter,
		validator:    opts.Validator,
		retrier:      opts.Retrier,
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

// Handle completes the job with the submission outcome. Failures are reported
// to the engine; the returned error only covers the completion command.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing quotation submission", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	if !h.config.Enabled {
		return h.completeJob(ctx, client, job, &Output{Success: false})
	}

	input, err := h.parseInput(job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	return nil
}

// parseInput reads the form fields from the job variables. Other process
// variables are ignored.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewQuotationValidationError("failed to parse job variables: " + err.Error())
	}
	input = intake.Normalize(input)
	if err := h.validator.Validate(input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute submits the quotation and maps an unsuccessful result to a
// StandardError carrying its code.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result := h.submitter.Submit(ctx, *input)
	if !result.Success {
		return nil, resultError(result)
	}
	return &Output{Success: true, ReferenceNumber: result.ReferenceNumber}, nil
}

func resultError(result models.SubmissionResult) *errors.StandardError {
	code := errors.ErrorCode(result.Code)
	if code == "" {
		code = errors.ErrCodeNotificationSendFailed
	}
	return &errors.StandardError{
		Code:      code,
		Message:   result.Error,
		Retryable: errors.IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	variables := map[string]interface{}{
		"success": output.Success,
	}
	if output.ReferenceNumber != "" {
		variables["referenceNumber"] = output.ReferenceNumber
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		return fmt.Errorf("create complete command for job %d: %w", job.GetKey(), err)
	}
	send := func(ctx context.Context) (interface{}, error) { return request.Send(ctx) }
	if h.retrier != nil {
		_, err = h.retrier.ExecuteWithRetry(ctx, send, "complete-job")
	} else {
		_, err = send(ctx)
	}
	if err != nil {
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}

	h.logger.Info("Quotation job completed", map[string]interface{}{
		"jobKey":          job.GetKey(),
		"success":         output.Success,
		"referenceNumber": output.ReferenceNumber,
	})
	return nil
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.AsStandard(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
			if workerCfg.MaxRetries > 0 {
				cfg.MaxRetries = workerCfg.MaxRetries
			}
		}
	}
	return cfg
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
