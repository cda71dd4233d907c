package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "techpulse/internal/errors"
	"techpulse/pkg/contracts/domain"
)

// dateLayouts are the accepted date formats for source files, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseCSV reads an employment source CSV and returns its events tagged
// with the given kind. The header row drives column lookup so column
// order does not matter.
func ParseCSV(filePath string, kind domain.EventKind) ([]domain.EmploymentEvent, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("opening source file", err).WithContext("path", filePath)
	}
	defer f.Close()

	events, err := ParseCSVReader(f, kind)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	return events, nil
}

// ParseCSVReader parses employment events from an open CSV stream.
func ParseCSVReader(r io.Reader, kind domain.EventKind) ([]domain.EmploymentEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("empty source file", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("reading header row", err)
	}

	cols, err := mapColumns(header, kind)
	if err != nil {
		return nil, err
	}

	var events []domain.EmploymentEvent
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewParsingError("reading data row", err).WithContext("line", line)
		}
		if isBlankRow(row) {
			continue
		}

		event, err := parseRow(row, cols, kind)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid data row", err).WithContext("line", line)
		}
		events = append(events, event)
	}

	return events, nil
}

// columnIndexes holds the resolved positions of the required columns.
type columnIndexes struct {
	date     int
	company  int
	count    int
	industry int
	location int
}

// mapColumns resolves column positions from the header row. The count
// column accepts source-specific names (layoffs/hires) as well as
// generic ones.
func mapColumns(header []string, kind domain.EventKind) (columnIndexes, error) {
	cols := columnIndexes{date: -1, company: -1, count: -1, industry: -1, location: -1}

	countNames := map[string]bool{"count": true}
	switch kind {
	case domain.EventKindLayoff:
		countNames["layoffs"] = true
		countNames["layoff_count"] = true
	case domain.EventKindHire:
		countNames["hires"] = true
		countNames["hiring_count"] = true
	}

	for i, name := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports
		name = strings.TrimPrefix(name, "\uFEFF")
		switch lower := strings.ToLower(strings.TrimSpace(name)); {
		case lower == "date":
			cols.date = i
		case lower == "company":
			cols.company = i
		case lower == "industry":
			cols.industry = i
		case lower == "location":
			cols.location = i
		case countNames[lower]:
			cols.count = i
		}
	}

	switch {
	case cols.date < 0:
		return cols, apperrors.NewParsingError("missing date column", nil)
	case cols.company < 0:
		return cols, apperrors.NewParsingError("missing company column", nil)
	case cols.count < 0:
		return cols, apperrors.NewParsingError("missing count column", nil)
	}

	return cols, nil
}

// parseRow converts one CSV row into an event
func parseRow(row []string, cols columnIndexes, kind domain.EventKind) (domain.EmploymentEvent, error) {
	cell := func(i int) string {
		if i >= 0 && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	date, err := parseDate(cell(cols.date))
	if err != nil {
		return domain.EmploymentEvent{}, err
	}

	company := cell(cols.company)
	if company == "" {
		return domain.EmploymentEvent{}, fmt.Errorf("missing company name")
	}

	count, err := parseCount(cell(cols.count))
	if err != nil {
		return domain.EmploymentEvent{}, err
	}

	return domain.EmploymentEvent{
		Date:     date,
		Company:  company,
		Industry: cell(cols.industry),
		Location: cell(cols.location),
		Count:    count,
		Kind:     kind,
	}, nil
}

// parseDate tries the accepted layouts in order
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseCount parses a head count, rejecting negatives. Spreadsheet
// exports sometimes write counts as floats, so "120.0" is accepted.
func parseCount(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("missing count")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return 0, fmt.Errorf("unparseable count %q", value)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// isBlankRow reports whether every cell in the row is empty
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
