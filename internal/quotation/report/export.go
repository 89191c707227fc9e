// internal/quotation/report/export.go
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

const (
	SheetQuotations = "Quotations"
	SheetSummary    = "Summary"
	timeLayout      = "2006-01-02 15:04"
)

var columns = []struct {
	title string
	width float64
}{
	{"Reference", 20},
	{"Submitted", 18},
	{"Full Name", 22},
	{"Company", 26},
	{"Email", 28},
	{"Phone", 18},
	{"Category", 30},
	{"Service Type", 26},
	{"Timeline", 24},
	{"Budget", 16},
	{"Referral", 18},
	{"Status", 12},
}

// Export renders quotations as an xlsx workbook with a detail sheet and a
// per-category summary.
func Export(quotations []models.QuotationSummary, cfg config.QuotationConfig, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetQuotations)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{cfg.PDF.Branding.Primary}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeDetail(f, quotations, cfg, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, quotations, headerStyle, generatedAt); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDetail(f *excelize.File, quotations []models.QuotationSummary, cfg config.QuotationConfig, headerStyle int) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.title
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetQuotations, col, col, c.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SheetQuotations, "A1", &header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetQuotations, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, q := range quotations {
		row := []interface{}{
			q.ReferenceNumber,
			q.SubmittedAt.UTC().Format(timeLayout),
			q.FullName,
			q.CompanyName,
			q.Email,
			q.Phone,
			q.ProjectCategory,
			cfg.ServiceTypeLabel(string(q.ServiceType)),
			cfg.TimelineLabel(q.Timeline),
			q.BudgetRange,
			q.ReferralSource,
			q.Status,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetQuotations, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetQuotations, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, quotations []models.QuotationSummary, headerStyle int, generatedAt time.Time) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary: %w", err)
	}

	byCategory := map[string]int{}
	byService := map[string]int{}
	for _, q := range quotations {
		byCategory[q.ProjectCategory]++
		byService[string(q.ServiceType)]++
	}

	f.SetCellValue(SheetSummary, "A1", "Quotation Export Summary")
	f.SetCellValue(SheetSummary, "A2", "Generated")
	f.SetCellValue(SheetSummary, "B2", generatedAt.UTC().Format(timeLayout))
	f.SetCellValue(SheetSummary, "A3", "Total Quotations")
	f.SetCellValue(SheetSummary, "B3", len(quotations))
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 40); err != nil {
		return err
	}

	row := 5
	for _, group := range []struct {
		title  string
		counts map[string]int
	}{
		{"Project Category", byCategory},
		{"Service Type", byService},
	} {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), group.title)
		f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), "Count")
		if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle); err != nil {
			return err
		}
		row++
		for _, k := range sortedKeys(group.counts) {
			f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), k)
			f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), group.counts[k])
			row++
		}
		row++
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
