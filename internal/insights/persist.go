package insights

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Report CSV row categories
const (
	categoryInsight        = "insight"
	categoryPrediction     = "prediction"
	categoryRecommendation = "recommendation"
	categoryHealth         = "health"
	categoryMeta           = "meta"
)

const reportFilePattern = "employment_insights_*.csv"

// SaveReport writes the report to a dated CSV in the reports directory
// and returns the file path. One file per day; a rerun overwrites.
func SaveReport(report Report, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, fmt.Sprintf("employment_insights_%s.csv",
		report.GeneratedAt.Format("2006-01-02")))

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"category", "key", "value"}); err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}

	rows := [][]string{
		{categoryMeta, "generated_at", report.GeneratedAt.Format(time.RFC3339)},
		{categoryHealth, "status", report.Health.Status},
		{categoryHealth, "latest_year", strconv.Itoa(report.Health.LatestYear)},
		{categoryHealth, "recent_net_change", strconv.Itoa(report.Health.RecentNetChange)},
		{categoryHealth, "volatility_ratio", strconv.FormatFloat(report.Health.VolatilityRatio, 'f', 4, 64)},
		{categoryHealth, "volatility_level", report.Health.VolatilityLevel},
	}
	for i, text := range report.Insights {
		rows = append(rows, []string{categoryInsight, strconv.Itoa(i), text})
	}
	for i, text := range report.Predictions {
		rows = append(rows, []string{categoryPrediction, strconv.Itoa(i), text})
	}
	for i, text := range report.Recommendations {
		rows = append(rows, []string{categoryRecommendation, strconv.Itoa(i), text})
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write report row: %w", err)
		}
	}

	return outputPath, nil
}

// LoadLatest reads back the most recent saved report from the reports
// directory. The dated file names sort lexically, so the newest file is
// the last one.
func LoadLatest(outputDir string) (Report, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, reportFilePattern))
	if err != nil {
		return Report{}, fmt.Errorf("scan reports directory: %w", err)
	}
	if len(matches) == 0 {
		return Report{}, fmt.Errorf("no insight reports found in %s", outputDir)
	}
	sort.Strings(matches)

	return loadReport(matches[len(matches)-1])
}

func loadReport(path string) (Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open report file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("read report file: %w", err)
	}
	if len(rows) < 1 {
		return Report{}, fmt.Errorf("report file %s is empty", path)
	}

	var report Report
	for _, row := range rows[1:] {
		if len(row) != 3 {
			continue
		}
		category, key, value := row[0], row[1], row[2]
		switch category {
		case categoryMeta:
			if key == "generated_at" {
				if t, err := time.Parse(time.RFC3339, value); err == nil {
					report.GeneratedAt = t
				}
			}
		case categoryHealth:
			switch key {
			case "status":
				report.Health.Status = value
			case "latest_year":
				report.Health.LatestYear, _ = strconv.Atoi(value)
			case "recent_net_change":
				report.Health.RecentNetChange, _ = strconv.Atoi(value)
			case "volatility_ratio":
				report.Health.VolatilityRatio, _ = strconv.ParseFloat(value, 64)
			case "volatility_level":
				report.Health.VolatilityLevel = value
			}
		case categoryInsight:
			report.Insights = append(report.Insights, value)
		case categoryPrediction:
			report.Predictions = append(report.Predictions, value)
		case categoryRecommendation:
			report.Recommendations = append(report.Recommendations, value)
		}
	}

	return report, nil
}
