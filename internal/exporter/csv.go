package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"techpulse/internal/config"
	"techpulse/pkg/contracts/domain"
)

// fusedHeaders is the column layout of the fused dataset export
var fusedHeaders = []string{
	"company", "year", "month", "industry", "location",
	"layoffs", "hires", "net_change", "employment_ratio", "date",
}

// trendHeaders is the column layout of the industry trends export
var trendHeaders = []string{"industry", "year", "layoffs", "hires", "net_change"}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteFusedCSV writes the fused dataset to the given file
func (w *CSVWriter) WriteFusedCSV(records []domain.FusedRecord, filePath string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   fusedHeaders,
		Records:   fusedRows(records),
		BOMPrefix: true,
	})
}

// WriteIndustryTrendsCSV writes yearly industry trends to the given file
func (w *CSVWriter) WriteIndustryTrendsCSV(trends []domain.IndustryTrend, filePath string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   trendHeaders,
		Records:   trendRows(trends),
		BOMPrefix: true,
	})
}

// EncodeFused streams the fused dataset as CSV to an arbitrary writer,
// BOM first, for HTTP download responses.
func EncodeFused(w io.Writer, records []domain.FusedRecord) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(fusedHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, row := range fusedRows(records) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func fusedRows(records []domain.FusedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Company,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Industry,
			r.Location,
			strconv.Itoa(r.Layoffs),
			strconv.Itoa(r.Hires),
			strconv.Itoa(r.NetChange),
			strconv.FormatFloat(r.EmploymentRatio, 'f', 4, 64),
			r.Date.Format("2006-01-02"),
		})
	}
	return rows
}

func trendRows(trends []domain.IndustryTrend) [][]string {
	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		rows = append(rows, []string{
			t.Industry,
			strconv.Itoa(t.Year),
			strconv.Itoa(t.Layoffs),
			strconv.Itoa(t.Hires),
			strconv.Itoa(t.NetChange),
		})
	}
	return rows
}

// resolvePath resolves a relative path into the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.paths.ReportsDir, filePath)
}
