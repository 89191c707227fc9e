// Package reference assigns human-readable quotation reference numbers of
// the form PREFIX-INITIALS-YEAR-SEQ, e.g. VXN-JD-2025-042.
package reference

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	minSequence = 1
	maxSequence = 999
)

// Reserver claims a reference so no other submission can use it. It
// returns false when the reference is already taken.
type Reserver interface {
	Reserve(ctx context.Context, reference string, ttl time.Duration) (bool, error)
}

type Generator struct {
	prefix      string
	now         func() time.Time
	intn        func(n int) int
	reserver    Reserver
	maxAttempts int
	ttl         time.Duration
	logger      logger.Logger
}

type Option func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRand replaces the sequence source; intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

// WithReserver makes Reserve claim each candidate, drawing at most
// maxAttempts candidates.
func WithReserver(r Reserver, maxAttempts int, ttl time.Duration) Option {
	return func(g *Generator) {
		g.reserver = r
		g.maxAttempts = maxAttempts
		g.ttl = ttl
	}
}

func WithLogger(l logger.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func NewGenerator(prefix string, opts ...Option) *Generator {
	g := &Generator{
		prefix:      prefix,
		now:         time.Now,
		intn:        rand.Intn,
		maxAttempts: 1,
		logger:      logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}
	g.logger = g.logger.WithFields(map[string]interface{}{"component": "reference"})
	return g
}

// Generate never fails. An empty or all-whitespace name yields an empty
// initials segment.
func (g *Generator) Generate(fullName string) string {
	seq := minSequence + g.intn(maxSequence-minSequence+1)
	return fmt.Sprintf("%s-%s-%04d-%03d", g.prefix, g.Initials(fullName), g.now().Year(), seq)
}

// Initials upper-cases the first rune of each whitespace-separated token.
func (g *Generator) Initials(fullName string) string {
	// Casers carry state; one per call keeps Generate safe for concurrent use.
	upper := cases.Upper(language.Und)

	var b strings.Builder
	for _, token := range strings.Fields(fullName) {
		r, _ := utf8.DecodeRuneInString(token)
		b.WriteString(upper.String(string(r)))
	}
	return b.String()
}

// Reserve draws candidates until the reserver accepts one. A reserver
// outage fails open: the unreserved candidate is returned and a warning
// logged, so submissions keep flowing without Redis.
func (g *Generator) Reserve(ctx context.Context, fullName string) (string, error) {
	if g.reserver == nil {
		return g.Generate(fullName), nil
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate := g.Generate(fullName)

		ok, err := g.reserver.Reserve(ctx, candidate, g.ttl)
		if err != nil {
			g.logger.Warn("Reference reservation unavailable, using unreserved reference", map[string]interface{}{
				"referenceNumber": candidate,
				"error":           err.Error(),
			})
			return candidate, nil
		}
		if ok {
			return candidate, nil
		}

		g.logger.Debug("Reference collision", map[string]interface{}{
			"referenceNumber": candidate,
			"attempt":         attempt,
		})
	}

	return "", errors.NewReferenceReservationError(g.prefix, g.maxAttempts)
}

// Pattern matches references produced with prefix.
func Pattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\S*)-(\d{4})-(\d{3})$`)
}
