package service

import (
	"context"
	"fmt"
	"regexp"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/metrics"
	"quotation-workers/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// Download is a stand-alone proposal for preview.
type Download struct {
	Filename        string
	ReferenceNumber string
	Content         []byte
}

// DownloadFilename is "{brand}-Proposal-{company}.pdf" with whitespace runs
// replaced by hyphens.
func DownloadFilename(brand, companyName string) string {
	return whitespace.ReplaceAllString(fmt.Sprintf("%s-Proposal-%s.pdf", brand, companyName), "-")
}

// DownloadPDF composes a proposal under a fresh reference. It sends nothing,
// stores nothing and claims no reference.
func (s *Service) DownloadPDF(ctx context.Context, req models.QuotationRequest) (d *Download, err error) {
	ctx, span := s.trace.Start(ctx, "quotation.download")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Panic during proposal download", map[string]interface{}{"panic": fmt.Sprint(r)})
			d, err = nil, errors.NewDocumentCompositionError(fmt.Errorf("panic: %v", r))
		}
		status := "success"
		if err != nil {
			status = "failed"
			span.RecordError(err)
		}
		metrics.QuotationPDFDownloads.WithLabelValues(status).Inc()
	}()

	record := models.NewQuotationRecord(req, s.deps.References.Generate(req.FullName), s.cfg.Now())

	pdf, err := s.deps.Documents.Compose(record)
	if err != nil {
		return nil, errors.NewDocumentCompositionError(err)
	}

	if s.deps.Tracker != nil {
		if err := s.deps.Tracker.TrackDownload(context.WithoutCancel(ctx), record); err != nil {
			s.log.Warn("Analytics tracking failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return &Download{
		Filename:        DownloadFilename(s.cfg.BrandName, req.CompanyName),
		ReferenceNumber: record.ReferenceNumber,
		Content:         pdf,
	}, nil
}
