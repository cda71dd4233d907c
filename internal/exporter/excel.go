package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"techpulse/internal/insights"
	"techpulse/pkg/contracts/domain"
)

const (
	sheetFused   = "Fused Data"
	sheetSummary = "Summary"
)

// BuildWorkbook assembles an XLSX workbook with the fused dataset and a
// summary sheet. The caller owns the returned file and must Close it.
func BuildWorkbook(records []domain.FusedRecord, stats domain.SummaryStats, health insights.MarketHealth) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", sheetFused)
	if _, err := f.NewSheet(sheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeFusedSheet(f, records); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, stats, health); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteWorkbook streams the workbook to an arbitrary writer, typically
// an HTTP download response.
func WriteWorkbook(w io.Writer, records []domain.FusedRecord, stats domain.SummaryStats, health insights.MarketHealth) error {
	f, err := BuildWorkbook(records, stats, health)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to a file on disk
func SaveWorkbook(path string, records []domain.FusedRecord, stats domain.SummaryStats, health insights.MarketHealth) error {
	f, err := BuildWorkbook(records, stats, health)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeFusedSheet(f *excelize.File, records []domain.FusedRecord) error {
	header := []interface{}{
		"Company", "Year", "Month", "Industry", "Location",
		"Layoffs", "Hires", "Net Change", "Employment Ratio", "Date",
	}
	if err := f.SetSheetRow(sheetFused, "A1", &header); err != nil {
		return fmt.Errorf("write fused header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			r.Company, r.Year, r.Month, r.Industry, r.Location,
			r.Layoffs, r.Hires, r.NetChange, r.EmploymentRatio,
			r.Date.Format("2006-01-02"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetFused, cell, &row); err != nil {
			return fmt.Errorf("write fused row %d: %w", i+2, err)
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, stats domain.SummaryStats, health insights.MarketHealth) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Layoffs", stats.TotalLayoffs},
		{"Total Hires", stats.TotalHires},
		{"Net Employment Change", stats.NetEmploymentChange},
		{"Active Companies", stats.ActiveCompanies},
		{"Market Health", health.Status},
		{"Volatility Level", health.VolatilityLevel},
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	// Top layoff companies below the headline figures
	base := len(rows) + 2
	title := []interface{}{"Top Layoff Companies", "Layoffs"}
	if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", base), &title); err != nil {
		return fmt.Errorf("write ranking header: %w", err)
	}
	for i, c := range stats.TopLayoffCompanies {
		row := []interface{}{c.Company, c.Layoffs}
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", base+1+i), &row); err != nil {
			return fmt.Errorf("write ranking row %d: %w", i, err)
		}
	}

	return nil
}
