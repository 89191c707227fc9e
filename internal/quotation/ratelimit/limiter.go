// internal/quotation/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
)

const keyPrefix = "quotation:ratelimit:"

// Window is a fixed counting window.
type Window struct {
	Name   string
	Length time.Duration
	Limit  int
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Window     string
	Limit      int
	Count      int64
	RetryAfter time.Duration
}

// Err converts a rejected decision into a RATE_LIMIT_EXCEEDED error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return errors.NewRateLimitExceededError(d.Window, d.Limit).
		WithMetadata("retryAfterSeconds", int(d.RetryAfter.Seconds()))
}

// Limiter counts submissions per key in hourly and daily fixed windows.
type Limiter struct {
	client  redis.Cmdable
	windows []Window
	enabled bool
	now     func() time.Time
	logger  logger.Logger
}

type Option func(*Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func NewLimiter(client redis.Cmdable, cfg config.QuotationConfig, log logger.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		client:  client,
		enabled: cfg.Features.EnableRateLimiting && client != nil,
		now:     time.Now,
		logger:  log.WithFields(map[string]interface{}{"component": "rate-limiter"}),
	}
	if cfg.RateLimit.MaxPerHour > 0 {
		l.windows = append(l.windows, Window{Name: "hour", Length: time.Hour, Limit: cfg.RateLimit.MaxPerHour})
	}
	if cfg.RateLimit.MaxPerDay > 0 {
		l.windows = append(l.windows, Window{Name: "day", Length: 24 * time.Hour, Limit: cfg.RateLimit.MaxPerDay})
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Enabled() bool {
	return l.enabled && len(l.windows) > 0
}

// Allow counts one attempt for key. A Redis failure allows the attempt and
// returns the error so callers can log it.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if !l.Enabled() {
		return Decision{Allowed: true}, nil
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Decision{Allowed: true}, nil
	}

	now := l.now().UTC()
	counters := make([]*redis.IntCmd, len(l.windows))

	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, w := range l.windows {
			k := bucketKey(key, w, now)
			counters[i] = pipe.Incr(ctx, k)
			pipe.Expire(ctx, k, w.Length)
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("Rate limit check failed, allowing request", map[string]interface{}{
			"error": err.Error(),
		})
		return Decision{Allowed: true}, fmt.Errorf("rate limit: %w", err)
	}

	for i, w := range l.windows {
		count := counters[i].Val()
		if count > int64(w.Limit) {
			start := now.Truncate(w.Length)
			d := Decision{
				Allowed:    false,
				Window:     w.Name,
				Limit:      w.Limit,
				Count:      count,
				RetryAfter: start.Add(w.Length).Sub(now),
			}
			l.logger.Info("Rate limit exceeded", map[string]interface{}{
				"window": w.Name,
				"limit":  w.Limit,
				"count":  count,
			})
			return d, nil
		}
	}
	return Decision{Allowed: true, Count: counters[0].Val()}, nil
}

func bucketKey(key string, w Window, now time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d", keyPrefix, w.Name, key, now.Truncate(w.Length).Unix())
}
