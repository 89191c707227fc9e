package submitquotation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/intake"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Submitter
// ==========================

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, req models.QuotationRequest) models.SubmissionResult {
	return m.Called(ctx, req).Get(0).(models.SubmissionResult)
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "quotation-process",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_SubmitQuotation",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}}
}

func createValidVariables() map[string]interface{} {
	return map[string]interface{}{
		"fullName":           "  Jane Doe ",
		"companyName":        "Acme",
		"email":              "jane@acme.com",
		"phone":              "0821234567",
		"address":            "1 Main Rd, City",
		"projectCategory":    "Web Development",
		"projectDescription": "A customer portal with invoicing, reporting and a mobile app.",
		"timeline":           "standard",
		"serviceType":        "saas",
		"processStartedBy":   "website",
	}
}

func setupHandler(t *testing.T) (*Handler, *MockSubmitter) {
	t.Helper()
	validator, err := intake.NewValidator(config.DefaultQuotationConfig())
	require.NoError(t, err)

	submitter := &MockSubmitter{}
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Submitter:    submitter,
		Validator:    validator,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h, submitter
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	validator, err := intake.NewValidator(config.DefaultQuotationConfig())
	require.NoError(t, err)

	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{Submitter: &MockSubmitter{}, Validator: validator},
		},
		{
			name:    "missing submitter",
			opts:    HandlerOptions{Validator: validator},
			wantErr: "submitter is required",
		},
		{
			name:    "missing validator",
			opts:    HandlerOptions{Submitter: &MockSubmitter{}},
			wantErr: "validator is required",
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 1},
				Submitter:    &MockSubmitter{},
				Validator:    validator,
			},
			wantErr: "timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logger.NewTestLogger(t)
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
			assert.True(t, h.IsEnabled())
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	h, _ := setupHandler(t)

	input, err := h.parseInput(createMockJob(1, createValidVariables()))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", input.FullName)
	assert.Equal(t, models.ServiceTypeSaaS, input.ServiceType)
}

func TestHandler_ParseInputValidationFailure(t *testing.T) {
	h, _ := setupHandler(t)
	vars := createValidVariables()
	delete(vars, "email")
	vars["timeline"] = "yesterday"

	_, err := h.parseInput(createMockJob(2, vars))

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeQuotationValidationFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Zero(t, errors.ConvertToBPMNError(stdErr).Retries)
}

func TestHandler_ParseInputWithInvalidJSON(t *testing.T) {
	h, _ := setupHandler(t)
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 3, Variables: "{not json"}}

	_, err := h.parseInput(job)

	require.Error(t, err)
	assert.Equal(t, string(errors.ErrCodeQuotationValidationFailed), extractErrorCode(err))
}

func TestHandler_Execute(t *testing.T) {
	h, submitter := setupHandler(t)
	input, err := h.parseInput(createMockJob(4, createValidVariables()))
	require.NoError(t, err)

	submitter.On("Submit", mock.Anything, *input).
		Return(models.SubmissionResult{Success: true, ReferenceNumber: "VXN-JD-2025-042"})

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "VXN-JD-2025-042", output.ReferenceNumber)
	submitter.AssertExpectations(t)
}

func TestHandler_ExecuteFailures(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{"send failed", string(errors.ErrCodeNotificationSendFailed), errors.ErrCodeNotificationSendFailed, true},
		{"dispatch timeout", string(errors.ErrCodeDispatchTimeout), errors.ErrCodeDispatchTimeout, true},
		{"composition", string(errors.ErrCodeDocumentCompositionFailed), errors.ErrCodeDocumentCompositionFailed, false},
		{"no code", "", errors.ErrCodeNotificationSendFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, submitter := setupHandler(t)
			submitter.On("Submit", mock.Anything, mock.Anything).
				Return(models.SubmissionResult{Success: false, Error: "Failed to send emails", Code: tt.code})

			input, err := h.parseInput(createMockJob(5, createValidVariables()))
			require.NoError(t, err)

			output, err := h.Execute(context.Background(), input)

			assert.Nil(t, output)
			stdErr, ok := errors.AsStandard(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.Equal(t, "Failed to send emails", stdErr.Message)
		})
	}
}

func TestHandler_SendFailureIsRetried(t *testing.T) {
	bpmn := errors.ConvertToBPMNError(resultError(models.SubmissionResult{Code: string(errors.ErrCodeNotificationSendFailed)}))

	assert.Equal(t, string(errors.ErrCodeNotificationSendFailed), bpmn.Code)
	assert.Greater(t, bpmn.Retries, 0)
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", *DefaultConfig(), false},
		{"zero timeout", Config{MaxJobsActive: 1}, true},
		{"zero jobs", Config{Timeout: time.Second}, true},
		{"negative retries", Config{Timeout: time.Second, MaxJobsActive: 1, MaxRetries: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	app := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 45000, MaxRetries: 5},
	}}

	cfg := createConfigFromAppConfig(app, nil)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)

	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))

	custom := &Config{Enabled: true, MaxJobsActive: 9, Timeout: time.Second}
	assert.Same(t, custom, createConfigFromAppConfig(app, custom))
}
