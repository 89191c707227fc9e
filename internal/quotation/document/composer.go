// internal/quotation/document/composer.go
package document

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/models"
)

const qrPixels = 256

// Composer turns a quotation record into a branded proposal PDF. It holds
// only configuration; every call builds its own document.
type Composer struct {
	cfg    config.QuotationConfig
	geo    Geometry
	logger logger.Logger
}

func NewComposer(cfg config.QuotationConfig, log logger.Logger) *Composer {
	return &Composer{
		cfg:    cfg,
		geo:    A4Geometry(cfg.PDF.Margins),
		logger: log.WithFields(map[string]interface{}{"component": "document-composer"}),
	}
}

// Plan lays out the record without rendering it.
func (c *Composer) Plan(record models.QuotationRecord) (Plan, error) {
	set := sectionSet{cfg: c.cfg, record: record}

	if c.cfg.PDF.MeetingQRCode && c.cfg.Meetings.DefaultLink != "" {
		png, err := qrcode.Encode(c.cfg.Meetings.DefaultLink, qrcode.Medium, qrPixels)
		if err != nil {
			c.logger.Warn("Meeting QR code skipped", map[string]interface{}{
				"referenceNumber": record.ReferenceNumber,
				"error":           err.Error(),
			})
		} else {
			set.qr = png
		}
	}

	plan := NewLayout(c.geo, newMeasurer()).Fold(set.build())
	if plan.Pages == 0 {
		return Plan{}, fmt.Errorf("layout produced no pages")
	}
	return plan, nil
}

// Compose renders the proposal for record.
func (c *Composer) Compose(record models.QuotationRecord) ([]byte, error) {
	plan, err := c.Plan(record)
	if err != nil {
		return nil, err
	}

	out, err := Render(plan, c.cfg.PDF.Branding, Metadata{
		Title:   fmt.Sprintf("PROPOSAL: %s - %s", record.ProjectCategory, record.CompanyName),
		Author:  c.cfg.Company.Name,
		Subject: record.ReferenceNumber,
	})
	if err != nil {
		return nil, err
	}

	metrics.QuotationDocumentPages.Observe(float64(plan.Pages))
	c.logger.Debug("Proposal composed", map[string]interface{}{
		"referenceNumber": record.ReferenceNumber,
		"pages":           plan.Pages,
		"bytes":           len(out),
	})
	return out, nil
}
