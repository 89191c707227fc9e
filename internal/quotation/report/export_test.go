package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

func createTestQuotations() []models.QuotationSummary {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []models.QuotationSummary{
		{
			ReferenceNumber: "VXN-JD-2025-042",
			FullName:        "Jane Doe",
			CompanyName:     "Acme",
			Email:           "jane@acme.com",
			Phone:           "0821234567",
			ProjectCategory: "Web Development",
			ServiceType:     models.ServiceTypeOneTime,
			Timeline:        "standard",
			BudgetRange:     "R100k-R250k",
			Status:          "submitted",
			SubmittedAt:     at,
		},
		{
			ReferenceNumber: "VXN-JS-2025-007",
			FullName:        "John Smith",
			CompanyName:     "Beta",
			Email:           "john@beta.com",
			ProjectCategory: "Web Development",
			ServiceType:     models.ServiceTypeSaaS,
			Timeline:        "urgent",
			ReferralSource:  "LinkedIn",
			Status:          "submitted",
			SubmittedAt:     at.Add(time.Hour),
		},
		{
			ReferenceNumber: "VXN-AB-2025-100",
			FullName:        "Ann Brown",
			CompanyName:     "Gamma",
			ProjectCategory: "UI/UX Design",
			ServiceType:     models.ServiceTypeSaaS,
			Timeline:        "flexible",
			Status:          "submitted",
			SubmittedAt:     at.Add(2 * time.Hour),
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExport_DetailSheet(t *testing.T) {
	cfg := config.DefaultQuotationConfig()
	data, err := Export(createTestQuotations(), cfg, time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{SheetQuotations, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetQuotations)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Reference", rows[0][0])
	assert.Equal(t, "Status", rows[0][len(columns)-1])

	assert.Equal(t, "VXN-JD-2025-042", rows[1][0])
	assert.Equal(t, "2025-03-14 09:30", rows[1][1])
	assert.Equal(t, "One-time Project", rows[1][7])
	assert.Equal(t, "Standard - 3-4 months", rows[1][8])
	assert.Equal(t, "Software as a Service (SaaS)", rows[2][7])
	assert.Equal(t, "LinkedIn", rows[2][10])
}

func TestExport_Summary(t *testing.T) {
	data, err := Export(createTestQuotations(), config.DefaultQuotationConfig(), time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f := openWorkbook(t, data)

	total, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	generated, _ := f.GetCellValue(SheetSummary, "B2")
	assert.Equal(t, "2025-04-01 08:00", generated)

	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	counts := map[string]string{}
	for _, r := range rows {
		if len(r) == 2 {
			counts[r[0]] = r[1]
		}
	}
	assert.Equal(t, "1", counts["UI/UX Design"])
	assert.Equal(t, "2", counts["Web Development"])
	assert.Equal(t, "2", counts["saas"])
	assert.Equal(t, "1", counts["one-time"])
}

func TestExport_Empty(t *testing.T) {
	data, err := Export(nil, config.DefaultQuotationConfig(), time.Now())
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(SheetQuotations)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
