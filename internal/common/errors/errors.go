// Package errors provides standardized error handling for the quotation
// service and its BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeQuotationValidationFailed  ErrorCode = "QUOTATION_VALIDATION_FAILED"
	ErrCodeReferenceReservationFailed ErrorCode = "REFERENCE_RESERVATION_FAILED"
	ErrCodeDocumentCompositionFailed  ErrorCode = "DOCUMENT_COMPOSITION_FAILED"
	ErrCodeNotificationComposeFailed  ErrorCode = "NOTIFICATION_COMPOSITION_FAILED"
	ErrCodeNotificationSendFailed     ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDispatchTimeout            ErrorCode = "DISPATCH_TIMEOUT"
	ErrCodeDatabaseConnectionFailed   ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed       ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeRateLimitExceeded          ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeAnalyticsIndexFailed       ErrorCode = "ANALYTICS_INDEX_FAILED"
	ErrCodeElasticsearchConnectFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeInternal                   ErrorCode = "INTERNAL_ERROR"
	ErrCodeBusinessRuleViolation      ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeExternalService            ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                    ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound           ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication             ErrorCode = "AUTHENTICATION_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError by code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// AsStandard extracts a StandardError from an error chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewQuotationValidationError creates a non-retryable input validation error.
func NewQuotationValidationError(details string) *StandardError {
	return newError(ErrCodeQuotationValidationFailed, "Quotation request validation failed", details, false, nil)
}

// NewReferenceReservationError is returned when every drawn reference collided.
func NewReferenceReservationError(prefix string, attempts int) *StandardError {
	return newError(ErrCodeReferenceReservationFailed,
		"Could not reserve a unique reference number",
		fmt.Sprintf("prefix: %s, attempts: %d", prefix, attempts), true, nil)
}

// NewDocumentCompositionError wraps a PDF rendering failure.
func NewDocumentCompositionError(err error) *StandardError {
	return newError(ErrCodeDocumentCompositionFailed, "Proposal document could not be composed", err.Error(), false, err)
}

// NewNotificationComposeError wraps a template rendering failure.
func NewNotificationComposeError(audience string, err error) *StandardError {
	return newError(ErrCodeNotificationComposeFailed, "Notification could not be composed",
		fmt.Sprintf("audience: %s, error: %s", audience, err.Error()), false, err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true, err)
}

// NewDispatchTimeoutError is raised when delivery did not finish inside the dispatch window.
func NewDispatchTimeoutError(window time.Duration) *StandardError {
	return newError(ErrCodeDispatchTimeout, "Notification dispatch timed out",
		fmt.Sprintf("window: %s", window), true, nil)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true, err)
}

// NewRateLimitExceededError reports which window was exhausted.
func NewRateLimitExceededError(window string, limit int) *StandardError {
	return newError(ErrCodeRateLimitExceeded, "Too many quotation requests",
		fmt.Sprintf("window: %s, limit: %d", window, limit), false, nil)
}

// NewAnalyticsIndexError wraps an Elasticsearch indexing failure.
func NewAnalyticsIndexError(err error) *StandardError {
	return newError(ErrCodeAnalyticsIndexFailed, "Analytics event could not be indexed", err.Error(), true, err)
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectFailed, "Elasticsearch connection error", err.Error(), true, err)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRuleViolation, message, details, false, nil)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false, nil)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the quotation process. They are identical today.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeQuotationValidationFailed:  "QUOTATION_VALIDATION_FAILED",
	ErrCodeReferenceReservationFailed: "REFERENCE_RESERVATION_FAILED",
	ErrCodeDocumentCompositionFailed:  "DOCUMENT_COMPOSITION_FAILED",
	ErrCodeNotificationComposeFailed:  "NOTIFICATION_COMPOSITION_FAILED",
	ErrCodeNotificationSendFailed:     "NOTIFICATION_SEND_FAILED",
	ErrCodeDispatchTimeout:            "DISPATCH_TIMEOUT",
	ErrCodeDatabaseConnectionFailed:   "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:       "DATABASE_INSERT_FAILED",
	ErrCodeRateLimitExceeded:          "RATE_LIMIT_EXCEEDED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeElasticsearchConnectFailed,
		ErrCodeAnalyticsIndexFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeDispatchTimeout,
		ErrCodeReferenceReservationFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REFERENCE"):
		return "REFERENCE"
	case strings.Contains(codeStr, "DOCUMENT"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "DISPATCH"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "ANALYTICS"):
		return "ANALYTICS"
	case strings.Contains(codeStr, "RATE_LIMIT"):
		return "RATE_LIMIT"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
