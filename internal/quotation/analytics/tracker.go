// internal/quotation/analytics/tracker.go
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
)

const DefaultIndex = "quotation-events"

const (
	EventSubmitted  = "quotation_submitted"
	EventDownloaded = "proposal_downloaded"
)

// Event is one analytics document. It carries no contact details.
type Event struct {
	Event           string    `json:"event"`
	ReferenceNumber string    `json:"referenceNumber"`
	ProjectCategory string    `json:"projectCategory"`
	ServiceType     string    `json:"serviceType"`
	Timeline        string    `json:"timeline"`
	BudgetRange     string    `json:"budgetRange,omitempty"`
	ReferralSource  string    `json:"referralSource,omitempty"`
	At              time.Time `json:"at"`
}

func newEvent(name string, record models.QuotationRecord) Event {
	return Event{
		Event:           name,
		ReferenceNumber: record.ReferenceNumber,
		ProjectCategory: record.ProjectCategory,
		ServiceType:     string(record.ServiceType),
		Timeline:        record.Timeline,
		BudgetRange:     record.BudgetRange,
		ReferralSource:  record.ReferralSource,
		At:              record.SubmissionDate.UTC(),
	}
}

// Tracker indexes submission and download events into Elasticsearch.
// A nil client or a disabled tracker makes every call a no-op.
type Tracker struct {
	client  *elasticsearch.Client
	index   string
	enabled bool
	logger  logger.Logger
}

func NewTracker(client *elasticsearch.Client, index string, enabled bool, log logger.Logger) *Tracker {
	if index == "" {
		index = DefaultIndex
	}
	return &Tracker{
		client:  client,
		index:   index,
		enabled: enabled && client != nil,
		logger:  log.WithFields(map[string]interface{}{"component": "analytics-tracker"}),
	}
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Tracker) TrackSubmission(ctx context.Context, record models.QuotationRecord) error {
	return t.track(ctx, newEvent(EventSubmitted, record))
}

func (t *Tracker) TrackDownload(ctx context.Context, record models.QuotationRecord) error {
	return t.track(ctx, newEvent(EventDownloaded, record))
}

func (t *Tracker) track(ctx context.Context, ev Event) error {
	if !t.Enabled() {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return errors.NewAnalyticsIndexError(fmt.Errorf("encode event: %w", err))
	}

	res, err := t.client.Index(
		t.index,
		bytes.NewReader(body),
		t.client.Index.WithContext(ctx),
		t.client.Index.WithDocumentID(uuid.NewString()),
	)
	if err != nil {
		return errors.NewAnalyticsIndexError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.NewAnalyticsIndexError(fmt.Errorf("index %s: %s: %s", t.index, res.Status(), bytes.TrimSpace(msg)))
	}

	t.logger.Debug("Analytics event indexed", map[string]interface{}{
		"event":           ev.Event,
		"referenceNumber": ev.ReferenceNumber,
	})
	return nil
}
