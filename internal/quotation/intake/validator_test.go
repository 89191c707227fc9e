package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/validation"
	"quotation-workers/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func createTestValidator(t *testing.T) *Validator {
	v, err := NewValidator(config.DefaultQuotationConfig())
	require.NoError(t, err)
	return v
}

func createTestInput() models.QuotationRequest {
	return models.QuotationRequest{
		FullName:           "Jane Doe",
		CompanyName:        "Acme Ltd",
		Email:              "jane@acme.test",
		Phone:              "+27 21 555 0100",
		Address:            "1 Main Road, Cape Town",
		ProjectCategory:    "Web Development",
		ProjectDescription: strings.Repeat("A customer portal with invoicing. ", 3),
		Timeline:           "standard",
		ServiceType:        models.ServiceTypeOneTime,
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeQuotationValidationFailed, stdErr.Code)
	errs, ok := stdErr.Metadata["fields"].([]validation.ValidationError)
	require.True(t, ok)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

// ==========================
// Validate
// ==========================

func TestValidate_ValidRequest(t *testing.T) {
	v := createTestValidator(t)
	assert.NoError(t, v.Validate(createTestInput()))

	withOptional := createTestInput()
	withOptional.VATNumber = "4123456789"
	withOptional.ContactPerson = "John Smith"
	withOptional.BudgetRange = "R100k-R250k"
	withOptional.ReferralSource = "LinkedIn"
	withOptional.ServiceType = models.ServiceTypeSaaS
	assert.NoError(t, v.Validate(withOptional))
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.QuotationRequest)
		field  string
	}{
		{"missing full name", func(r *models.QuotationRequest) { r.FullName = "" }, "fullName"},
		{"short full name", func(r *models.QuotationRequest) { r.FullName = "J" }, "fullName"},
		{"bad email", func(r *models.QuotationRequest) { r.Email = "jane.acme" }, "email"},
		{"short phone", func(r *models.QuotationRequest) { r.Phone = "555" }, "phone"},
		{"letters in phone", func(r *models.QuotationRequest) { r.Phone = "call me maybe 123" }, "phone"},
		{"short address", func(r *models.QuotationRequest) { r.Address = "Cape Town" }, "address"},
		{"unknown category", func(r *models.QuotationRequest) { r.ProjectCategory = "Blockchain" }, "projectCategory"},
		{"other without detail", func(r *models.QuotationRequest) { r.ProjectCategory = "Other" }, "otherCategory"},
		{"short description", func(r *models.QuotationRequest) { r.ProjectDescription = "Too short" }, "projectDescription"},
		{"unknown timeline", func(r *models.QuotationRequest) { r.Timeline = "yesterday" }, "timeline"},
		{"unknown budget", func(r *models.QuotationRequest) { r.BudgetRange = "a lot" }, "budgetRange"},
		{"unknown service type", func(r *models.QuotationRequest) { r.ServiceType = "retainer" }, "serviceType"},
		{"missing service type", func(r *models.QuotationRequest) { r.ServiceType = "" }, "serviceType"},
	}

	v := createTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createTestInput()
			tt.mutate(&req)

			err := v.Validate(req)

			require.Error(t, err)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	v := createTestValidator(t)
	err := v.Validate(models.QuotationRequest{})

	fields := fieldsOf(t, err)
	for _, f := range []string{"fullName", "companyName", "email", "phone", "address",
		"projectCategory", "projectDescription", "timeline", "serviceType"} {
		assert.Contains(t, fields, f)
	}
}

func TestValidate_OtherCategoryWithDetail(t *testing.T) {
	req := createTestInput()
	req.ProjectCategory = "Other"
	req.OtherCategory = "Drone telemetry"
	assert.NoError(t, createTestValidator(t).Validate(req))
}

// ==========================
// ValidateJSON
// ==========================

func TestValidateJSON(t *testing.T) {
	v := createTestValidator(t)

	t.Run("decodes and trims", func(t *testing.T) {
		raw := `{"fullName":"  Jane Doe ","companyName":"Acme Ltd","email":"jane@acme.test",
			"phone":"+27 21 555 0100","address":"1 Main Road, Cape Town",
			"projectCategory":"Web Development",
			"projectDescription":"A customer portal with invoicing, reporting and a mobile companion app.",
			"timeline":"standard","serviceType":"saas","vatNumber":""}`

		req, err := v.ValidateJSON([]byte(raw))

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", req.FullName)
		assert.Equal(t, models.ServiceTypeSaaS, req.ServiceType)
		assert.Empty(t, req.VATNumber)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := v.ValidateJSON([]byte(`{"fullName":`))
		var stdErr *errors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Contains(t, stdErr.Details, "malformed JSON")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := v.ValidateJSON([]byte(`{"fullName":"Jane Doe","isAdmin":true}`))
		assert.Equal(t, []string{"isAdmin"}, fieldsOf(t, err))
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := v.ValidateJSON([]byte(`{"fullName":42}`))
		var stdErr *errors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, errors.ErrCodeQuotationValidationFailed, stdErr.Code)
	})
}

func TestSchema_FollowsConfig(t *testing.T) {
	cfg := config.DefaultQuotationConfig()
	cfg.Validation.MinDescriptionLength = 5
	cfg.Options.BudgetRanges = nil

	v, err := NewValidator(cfg)
	require.NoError(t, err)

	req := createTestInput()
	req.ProjectDescription = "Short"
	req.BudgetRange = "anything goes"
	assert.NoError(t, v.Validate(req))
}
