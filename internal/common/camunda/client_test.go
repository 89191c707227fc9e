package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"quotation-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestClient() *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	c := newTestClient()
	calls := 0

	out, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, stderrors.New("rpc error: code = Unavailable")
		}
		return "ok", nil
	}, "complete-job")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	c := newTestClient()
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("job not found")
	}, "complete-job")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeResourceNotFound))
}

func TestMapZeebeError(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		msg  string
		code errors.ErrorCode
	}{
		{"connection refused", errors.ErrCodeExternalService},
		{"context deadline exceeded", errors.ErrCodeTimeout},
		{"process not found", errors.ErrCodeResourceNotFound},
		{"instance already exists", errors.ErrCodeBusinessRuleViolation},
		{"permission denied", errors.ErrCodeAuthentication},
		{"something odd", errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := c.mapZeebeError(stderrors.New(tt.msg), "publish", 1)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestMapZeebeError_GRPCStatus(t *testing.T) {
	c := newTestClient()

	assert.True(t, errors.HasCode(c.mapZeebeError(status.Error(codes.NotFound, "job 42"), "complete-job", 0), errors.ErrCodeResourceNotFound))
	assert.True(t, errors.HasCode(c.mapZeebeError(status.Error(codes.Unauthenticated, "token"), "complete-job", 0), errors.ErrCodeAuthentication))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(status.Error(codes.Unavailable, "gateway")))
	assert.True(t, isTransient(status.Error(codes.ResourceExhausted, "backpressure")))
	assert.False(t, isTransient(status.Error(codes.NotFound, "job")))
	assert.True(t, isTransient(stderrors.New("dial tcp: connection refused")))
	assert.False(t, isTransient(stderrors.New("invalid variables")))
}
