package submitquotation

import "quotation-workers/internal/models"

// Input is the quotation form as carried in process variables.
type Input = models.QuotationRequest

type Output struct {
	Success         bool   `json:"success"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
}
