// Package intake validates quotation requests at the outer surfaces (HTTP
// and Zeebe) before they reach the orchestrator.
package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/validation"
	"quotation-workers/internal/models"
)

const otherCategory = "Other"

const (
	emailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	phonePattern = `^\+?[\d\s\-\(\)]+$`
)

// Validator checks requests against a schema derived from QuotationConfig.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator(cfg config.QuotationConfig) (*Validator, error) {
	compiled, err := Schema(cfg).Compile()
	if err != nil {
		return nil, fmt.Errorf("quotation schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Schema describes a QuotationRequest with the configured limits and options.
func Schema(cfg config.QuotationConfig) validation.JSONSchema {
	v := cfg.Validation
	serviceTypes := make([]string, 0, len(cfg.Options.ServiceTypes))
	for _, st := range cfg.Options.ServiceTypes {
		serviceTypes = append(serviceTypes, st.Value)
	}

	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"fullName":           {Type: "string", MinLength: validation.Int(v.MinNameLength)},
			"companyName":        {Type: "string", MinLength: validation.Int(v.MinNameLength)},
			"email":              {Type: "string", Pattern: validation.String(emailPattern)},
			"phone":              {Type: "string", MinLength: validation.Int(v.MinPhoneLength), Pattern: validation.String(phonePattern)},
			"address":            {Type: "string", MinLength: validation.Int(v.MinAddressLength)},
			"vatNumber":          {Type: "string"},
			"contactPerson":      {Type: "string"},
			"projectCategory":    {Type: "string", Enum: cfg.Options.ProjectCategories},
			"otherCategory":      {Type: "string"},
			"projectDescription": {Type: "string", MinLength: validation.Int(v.MinDescriptionLength)},
			"timeline":           {Type: "string", Enum: cfg.TimelineValues()},
			"budgetRange":        {Type: "string", Enum: cfg.Options.BudgetRanges},
			"referralSource":     {Type: "string"},
			"serviceType":        {Type: "string", Enum: serviceTypes},
		},
		Required: []string{
			"fullName", "companyName", "email", "phone", "address",
			"projectCategory", "projectDescription", "timeline", "serviceType",
		},
		AdditionalProperties: validation.Bool(false),
	}
}

// Normalize trims surrounding whitespace from every field.
func Normalize(req models.QuotationRequest) models.QuotationRequest {
	t := strings.TrimSpace
	req.FullName = t(req.FullName)
	req.CompanyName = t(req.CompanyName)
	req.Email = t(req.Email)
	req.Phone = t(req.Phone)
	req.Address = t(req.Address)
	req.VATNumber = t(req.VATNumber)
	req.ContactPerson = t(req.ContactPerson)
	req.ProjectCategory = t(req.ProjectCategory)
	req.OtherCategory = t(req.OtherCategory)
	req.ProjectDescription = t(req.ProjectDescription)
	req.Timeline = t(req.Timeline)
	req.BudgetRange = t(req.BudgetRange)
	req.ReferralSource = t(req.ReferralSource)
	req.ServiceType = models.ServiceType(t(string(req.ServiceType)))
	return req
}

// Validate returns a QUOTATION_VALIDATION_FAILED error listing every
// offending field, or nil.
func (v *Validator) Validate(req models.QuotationRequest) error {
	doc, err := toDocument(req)
	if err != nil {
		return errors.NewQuotationValidationError(err.Error())
	}

	res := validation.Validate(v.schema, doc)
	if req.ProjectCategory == otherCategory && req.OtherCategory == "" {
		res.Valid = false
		res.Errors = append(res.Errors, validation.ValidationError{
			Field:   "otherCategory",
			Message: "otherCategory is required when projectCategory is Other",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	}
	if res.Valid {
		return nil
	}

	return errors.NewQuotationValidationError(strings.Join(res.GetErrorMessages(), "; ")).
		WithMetadata("fields", res.Errors)
}

// ValidateJSON decodes raw form data and validates it. Unknown fields are
// reported rather than dropped.
func (v *Validator) ValidateJSON(raw []byte) (models.QuotationRequest, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.QuotationRequest{}, errors.NewQuotationValidationError("malformed JSON: " + err.Error())
	}
	res := validation.Validate(v.schema, doc)
	extras := res.Errors[:0:0]
	for _, e := range res.Errors {
		if e.Code == "EXTRA_FIELD" {
			extras = append(extras, e)
		}
	}
	if len(extras) > 0 {
		r := validation.ValidationResult{Errors: extras}
		return models.QuotationRequest{}, errors.NewQuotationValidationError(strings.Join(r.GetErrorMessages(), "; ")).
			WithMetadata("fields", extras)
	}

	var req models.QuotationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.QuotationRequest{}, errors.NewQuotationValidationError(err.Error())
	}
	req = Normalize(req)
	if err := v.Validate(req); err != nil {
		return models.QuotationRequest{}, err
	}
	return req, nil
}

// toDocument drops empty optional fields so they are treated as absent.
func toDocument(req models.QuotationRequest) (map[string]interface{}, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, val := range doc {
		if s, ok := val.(string); ok && s == "" {
			delete(doc, k)
		}
	}
	return doc, nil
}
