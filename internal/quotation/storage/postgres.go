// internal/quotation/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
)

const StatusSubmitted = "submitted"

// PostgresStore persists submitted quotations.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "quotation-store"}),
	}
}

// nullable maps empty optional fields to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Save inserts the record and an audit entry. Only the quotation insert is
// fatal; a failed audit insert is logged.
func (s *PostgresStore) Save(ctx context.Context, record models.QuotationRecord) error {
	submittedAt := record.SubmissionDate.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotations (
			reference_number, full_name, company_name, email, phone, address,
			vat_number, contact_person, project_category, other_category,
			project_description, timeline, budget_range, referral_source,
			service_type, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		record.ReferenceNumber,
		record.FullName,
		record.CompanyName,
		record.Email,
		record.Phone,
		record.Address,
		nullable(record.VATNumber),
		nullable(record.ContactPerson),
		record.ProjectCategory,
		nullable(record.OtherCategory),
		record.ProjectDescription,
		record.Timeline,
		nullable(record.BudgetRange),
		nullable(record.ReferralSource),
		string(record.ServiceType),
		StatusSubmitted,
		submittedAt,
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err).
			WithMetadata("referenceNumber", record.ReferenceNumber)
	}

	auditJSON, err := json.Marshal(map[string]interface{}{
		"companyName":     record.CompanyName,
		"projectCategory": record.ProjectCategory,
		"serviceType":     record.ServiceType,
	})
	if err != nil {
		auditJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, reference, payload, created_at)
		VALUES ($1, $2, $3, $4)`,
		"quotation_submitted",
		record.ReferenceNumber,
		auditJSON,
		submittedAt,
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":           err.Error(),
			"referenceNumber": record.ReferenceNumber,
		})
	}

	s.logger.Info("Quotation stored", map[string]interface{}{
		"referenceNumber": record.ReferenceNumber,
	})
	return nil
}

// List returns quotations submitted at or after since, oldest first.
func (s *PostgresStore) List(ctx context.Context, since time.Time) ([]models.QuotationSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reference_number, full_name, company_name, email, phone,
		       project_category, service_type, timeline,
		       COALESCE(budget_range, ''), COALESCE(referral_source, ''),
		       status, submitted_at
		FROM quotations
		WHERE submitted_at >= $1
		ORDER BY submitted_at ASC`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var out []models.QuotationSummary
	for rows.Next() {
		var q models.QuotationSummary
		var serviceType string
		if err := rows.Scan(
			&q.ReferenceNumber, &q.FullName, &q.CompanyName, &q.Email, &q.Phone,
			&q.ProjectCategory, &serviceType, &q.Timeline,
			&q.BudgetRange, &q.ReferralSource,
			&q.Status, &q.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		q.ServiceType = models.ServiceType(serviceType)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}
