// internal/models/quotation.go
package models

import (
	"strings"
	"time"
)

// ServiceType is the engagement model requested by the client.
type ServiceType string

const (
	ServiceTypeOneTime ServiceType = "one-time"
	ServiceTypeSaaS    ServiceType = "saas"
)

func (s ServiceType) Valid() bool {
	return s == ServiceTypeOneTime || s == ServiceTypeSaaS
}

// QuotationRequest is the submitted form data. Required fields are
// validated upstream; optional fields are empty when absent.
type QuotationRequest struct {
	FullName           string      `json:"fullName"`
	CompanyName        string      `json:"companyName"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Address            string      `json:"address"`
	VATNumber          string      `json:"vatNumber,omitempty"`
	ContactPerson      string      `json:"contactPerson,omitempty"`
	ProjectCategory    string      `json:"projectCategory"`
	OtherCategory      string      `json:"otherCategory,omitempty"`
	ProjectDescription string      `json:"projectDescription"`
	Timeline           string      `json:"timeline"`
	BudgetRange        string      `json:"budgetRange,omitempty"`
	ReferralSource     string      `json:"referralSource,omitempty"`
	ServiceType        ServiceType `json:"serviceType"`
}

// Contact returns the person to address, falling back to the submitter.
func (r QuotationRequest) Contact() string {
	if c := strings.TrimSpace(r.ContactPerson); c != "" {
		return c
	}
	return r.FullName
}

// QuotationRecord is a request bound to its reference number and
// submission time. It is created once per submission and never mutated.
type QuotationRecord struct {
	QuotationRequest
	ReferenceNumber string    `json:"referenceNumber"`
	SubmissionDate  time.Time `json:"submissionDate"`
}

func NewQuotationRecord(req QuotationRequest, referenceNumber string, submittedAt time.Time) QuotationRecord {
	return QuotationRecord{
		QuotationRequest: req,
		ReferenceNumber:  referenceNumber,
		SubmissionDate:   submittedAt,
	}
}

// SubmissionResult is what callers of the submission pipeline receive.
type SubmissionResult struct {
	Success         bool   `json:"success"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
	Error           string `json:"error,omitempty"`
	Code            string `json:"code,omitempty"`
}

// QuotationSummary is the stored projection of a submitted quotation.
type QuotationSummary struct {
	ReferenceNumber string      `json:"referenceNumber"`
	FullName        string      `json:"fullName"`
	CompanyName     string      `json:"companyName"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	ProjectCategory string      `json:"projectCategory"`
	ServiceType     ServiceType `json:"serviceType"`
	Timeline        string      `json:"timeline"`
	BudgetRange     string      `json:"budgetRange,omitempty"`
	ReferralSource  string      `json:"referralSource,omitempty"`
	Status          string      `json:"status"`
	SubmittedAt     time.Time   `json:"submittedAt"`
}
