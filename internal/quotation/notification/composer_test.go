package notification

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

var testPDF = []byte("%PDF-1.3 test document")

func createTestRecord() models.QuotationRecord {
	return models.NewQuotationRecord(models.QuotationRequest{
		FullName:           "Jane Doe",
		CompanyName:        "Acme Holdings",
		Email:              "jane@acme.test",
		Phone:              "+27 82 555 0101",
		Address:            "12 Long Street, Cape Town 8001",
		ProjectCategory:    "Web Development",
		ProjectDescription: "We need a customer portal with authentication, billing history and a support ticket inbox.",
		Timeline:           "standard",
		ServiceType:        models.ServiceTypeOneTime,
	}, "VXN-JD-2025-042", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC))
}

func newTestComposer() *Composer {
	return NewComposer(config.DefaultQuotationConfig())
}

// ==========================
// Subjects
// ==========================

func TestRenderSubject(t *testing.T) {
	vars := VarsFor(createTestRecord())

	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{"client default", "Your VXN-NEXIA Consultation Proposal - {{referenceNumber}}", "Your VXN-NEXIA Consultation Proposal - VXN-JD-2025-042", false},
		{"internal default", "New Quotation Request - {{projectCategory}} - {{companyName}}", "New Quotation Request - Web Development - Acme Holdings", false},
		{"contact falls back to full name", "Hi {{contactPerson}}", "Hi Jane Doe", false},
		{"inner spaces", "{{ fullName }}", "Jane Doe", false},
		{"repeated", "{{referenceNumber}}/{{referenceNumber}}", "VXN-JD-2025-042/VXN-JD-2025-042", false},
		{"no placeholders", "Hello", "Hello", false},
		{"unknown placeholder", "Hi {{firstName}}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderSubject(tt.tmpl, vars)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "firstName")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTemplate(t *testing.T) {
	assert.NoError(t, CheckTemplate("{{companyName}} {{contactPerson}}"))
	assert.Error(t, CheckTemplate("{{budget}}"))
}

// ==========================
// Client message
// ==========================

func TestComposeClient(t *testing.T) {
	msg, err := newTestComposer().ComposeClient(createTestRecord(), testPDF)
	require.NoError(t, err)

	assert.Equal(t, models.AudienceClient, msg.Audience)
	assert.Equal(t, []string{"jane@acme.test"}, msg.To)
	assert.Equal(t, "Your VXN-NEXIA Consultation Proposal - VXN-JD-2025-042", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "max-width: 600px")
	assert.Contains(t, msg.HTMLBody, "Dear Jane Doe,")
	assert.Contains(t, msg.HTMLBody, "Reference Number: VXN-JD-2025-042")
	assert.Contains(t, msg.HTMLBody, `href="https://teams.microsoft.com/l/meetup-join/19%3ameeting_default_link"`)
	assert.Contains(t, msg.HTMLBody, "2025 VXN-NEXIA. All rights reserved.")

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "VXN-NEXIA-Proposal-VXN-JD-2025-042.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, testPDF, msg.Attachments[0].Content)
}

func TestComposeClient_GreetsContactPerson(t *testing.T) {
	record := createTestRecord()
	record.ContactPerson = "Sam Smith"

	msg, err := newTestComposer().ComposeClient(record, testPDF)
	require.NoError(t, err)
	assert.Contains(t, msg.HTMLBody, "Dear Sam Smith,")
	assert.NotContains(t, msg.HTMLBody, "Dear Jane Doe")
}

func TestComposeClient_EscapesUserInput(t *testing.T) {
	record := createTestRecord()
	record.FullName = `<script>alert("x")</script>`

	msg, err := newTestComposer().ComposeClient(record, testPDF)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.TextBody, `<script>alert("x")</script>`)
}

// ==========================
// Internal message
// ==========================

func TestComposeInternal(t *testing.T) {
	msg, err := newTestComposer().ComposeInternal(createTestRecord(), testPDF)
	require.NoError(t, err)

	assert.Equal(t, models.AudienceInternal, msg.Audience)
	assert.Equal(t, []string{"info@vxn-nexia.com", "admin@vxn-nexia.com"}, msg.To)
	assert.Equal(t, "New Quotation Request - Web Development - Acme Holdings", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "max-width: 800px")
	assert.Contains(t, msg.HTMLBody, "Reference: VXN-JD-2025-042")
	assert.Contains(t, msg.HTMLBody, "2025/01/15, 09:30:00")
	assert.Contains(t, msg.HTMLBody, "One-time Project")
	assert.Contains(t, msg.HTMLBody, "Standard - 3-4 months")
	assert.Contains(t, msg.HTMLBody, "within 3 days")

	for _, absent := range []string{"VAT Number", "Contact Person", "Budget Range", "Specific Category", "How they heard about us", "&lt;no value&gt;"} {
		assert.NotContains(t, msg.HTMLBody, absent)
	}
}

func TestComposeInternal_OptionalFields(t *testing.T) {
	record := createTestRecord()
	record.VATNumber = "4123456789"
	record.ContactPerson = "Sam Smith"
	record.BudgetRange = "R250k-R500k"
	record.OtherCategory = "Loyalty programme"
	record.ReferralSource = "LinkedIn"
	record.ServiceType = models.ServiceTypeSaaS

	msg, err := newTestComposer().ComposeInternal(record, testPDF)
	require.NoError(t, err)

	for _, present := range []string{"4123456789", "Sam Smith", "R250k-R500k", "Loyalty programme", "LinkedIn", "Software as a Service (SaaS)"} {
		assert.Contains(t, msg.HTMLBody, present)
	}
}

func TestCompose_SharesAttachmentBytes(t *testing.T) {
	c := newTestComposer()
	record := createTestRecord()

	client, err := c.ComposeClient(record, testPDF)
	require.NoError(t, err)
	internal, err := c.ComposeInternal(record, testPDF)
	require.NoError(t, err)

	assert.Equal(t, client.Attachments[0], internal.Attachments[0])
	assert.Same(t, &client.Attachments[0].Content[0], &internal.Attachments[0].Content[0])
}

func TestCompose_Errors(t *testing.T) {
	c := newTestComposer()

	_, err := c.ComposeClient(createTestRecord(), nil)
	assert.ErrorIs(t, err, errEmptyDocument)

	cfg := config.DefaultQuotationConfig()
	cfg.Notifications.InternalSubject = "{{unknown}}"
	_, err = NewComposer(cfg).ComposeInternal(createTestRecord(), testPDF)
	assert.Error(t, err)
}

func TestCompose_Pure(t *testing.T) {
	c := newTestComposer()
	first, err := c.ComposeInternal(createTestRecord(), testPDF)
	require.NoError(t, err)
	second, err := c.ComposeInternal(createTestRecord(), testPDF)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// ==========================
// Plain text
// ==========================

func TestHTMLToText(t *testing.T) {
	msg, err := newTestComposer().ComposeClient(createTestRecord(), testPDF)
	require.NoError(t, err)

	text := msg.TextBody
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "Consultation Proposal</title>")
	assert.Contains(t, text, "Dear Jane Doe,")
	assert.Contains(t, text, "Reference Number: VXN-JD-2025-042")
	assert.Contains(t, text, "Join Teams Meeting (https://teams.microsoft.com/l/meetup-join/19%3ameeting_default_link)")
	assert.NotContains(t, text, "\n\n\n")
	assert.False(t, strings.HasPrefix(text, "\n"))
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "VXN-NEXIA-Proposal-VXN-JD-2025-042.pdf", AttachmentFilename("VXN-NEXIA", "VXN-JD-2025-042"))
	assert.Equal(t, "Acme-Labs-Proposal-ACM--2025-001.pdf", AttachmentFilename("Acme Labs", "ACM--2025-001"))
}
