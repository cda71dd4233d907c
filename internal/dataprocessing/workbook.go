package dataprocessing

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "techpulse/internal/errors"
	"techpulse/pkg/contracts/domain"
)

// ParseWorkbook reads an XLSX workbook and extracts employment events from
// the first sheet that carries the expected columns. Sheet names vary
// between exports, so the sheet is found by probing headers.
func ParseWorkbook(filePath string, kind domain.EventKind) ([]domain.EmploymentEvent, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("opening workbook", err).WithContext("path", filePath)
	}
	defer f.Close()

	rows, sheetName, err := findEventSheet(f)
	if err != nil {
		return nil, err
	}

	slog.Debug("found employment data sheet",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)))

	cols, err := mapColumns(rows[0], kind)
	if err != nil {
		return nil, err
	}

	var events []domain.EmploymentEvent
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		event, err := parseRow(row, cols, kind)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid workbook row", err).
				WithContext("sheet", sheetName).
				WithContext("row", i+2)
		}
		events = append(events, event)
	}

	return events, nil
}

// findEventSheet probes the workbook for a sheet whose first row looks
// like an employment data header.
func findEventSheet(f *excelize.File) ([][]string, string, error) {
	// Common export names first, then every sheet
	candidates := []string{"Events", "Data", "Sheet1"}
	candidates = append(candidates, f.GetSheetList()...)

	for _, name := range candidates {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		headerText := strings.ToLower(strings.Join(rows[0], " "))
		if strings.Contains(headerText, "company") && strings.Contains(headerText, "date") {
			return rows, name, nil
		}
	}

	return nil, "", apperrors.NewParsingError("no employment data sheet found in workbook", nil)
}
