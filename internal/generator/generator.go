// Package generator produces a synthetic tech employment dataset for
// demos and testing: layoff and hiring announcements for well-known
// companies across 2020-2024, with the downturn and boom years skewed
// the way the real market moved.
package generator

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"techpulse/pkg/contracts/domain"
)

var companies = []string{
	"Meta", "Google", "Amazon", "Microsoft", "Apple", "Netflix", "Tesla",
	"Twitter", "Uber", "Airbnb", "Spotify", "Zoom", "Salesforce", "Adobe",
	"Intel", "NVIDIA", "PayPal", "Square", "Dropbox", "Slack",
}

var industries = []string{
	"Social Media", "Search/Cloud", "E-commerce", "Software", "Hardware",
	"Streaming", "Automotive", "Transportation", "Travel", "Music",
	"Video Conferencing", "CRM", "Design", "Semiconductors", "Fintech",
}

var locations = []string{
	"San Francisco", "Seattle", "New York", "Austin", "Boston",
	"Los Angeles", "Chicago", "Denver", "Atlanta", "Remote",
}

// Config controls the size and reproducibility of the generated dataset
type Config struct {
	Seed         int64
	LayoffEvents int
	HiringEvents int
	StartYear    int
	EndYear      int
}

// DefaultConfig matches the published sample dataset shape
func DefaultConfig() Config {
	return Config{
		Seed:         time.Now().UnixNano(),
		LayoffEvents: 500,
		HiringEvents: 600,
		StartYear:    2020,
		EndYear:      2024,
	}
}

// Generate produces the layoff and hiring event sets. The same seed
// always yields the same dataset.
func Generate(cfg Config) (layoffs, hires []domain.EmploymentEvent) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	start := time.Date(cfg.StartYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(cfg.EndYear, 12, 31, 0, 0, 0, 0, time.UTC)
	spanDays := int(end.Sub(start).Hours()/24) + 1

	layoffs = make([]domain.EmploymentEvent, 0, cfg.LayoffEvents)
	for i := 0; i < cfg.LayoffEvents; i++ {
		date := start.AddDate(0, 0, rng.Intn(spanDays))

		// Downturn years saw much larger layoff rounds
		var count int
		if date.Year() == 2022 || date.Year() == 2023 {
			count = randBetween(rng, 50, 2000)
		} else {
			count = randBetween(rng, 10, 500)
		}

		layoffs = append(layoffs, domain.EmploymentEvent{
			Date:     date,
			Company:  companies[rng.Intn(len(companies))],
			Industry: industries[rng.Intn(len(industries))],
			Location: locations[rng.Intn(len(locations))],
			Count:    count,
			Kind:     domain.EventKindLayoff,
		})
	}

	hires = make([]domain.EmploymentEvent, 0, cfg.HiringEvents)
	for i := 0; i < cfg.HiringEvents; i++ {
		date := start.AddDate(0, 0, rng.Intn(spanDays))

		// Pandemic boom hiring, then the pullback
		var count int
		switch date.Year() {
		case 2020, 2021:
			count = randBetween(rng, 100, 3000)
		case 2022, 2023:
			count = randBetween(rng, 20, 800)
		default:
			count = randBetween(rng, 50, 1500)
		}

		hires = append(hires, domain.EmploymentEvent{
			Date:     date,
			Company:  companies[rng.Intn(len(companies))],
			Industry: industries[rng.Intn(len(industries))],
			Location: locations[rng.Intn(len(locations))],
			Count:    count,
			Kind:     domain.EventKindHire,
		})
	}

	return layoffs, hires
}

// WriteCSV writes events in the source file format understood by the
// loader: date, company, count column named for the kind, industry,
// location.
func WriteCSV(events []domain.EmploymentEvent, kind domain.EventKind, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	countColumn := "layoffs"
	if kind == domain.EventKindHire {
		countColumn = "hires"
	}

	if err := writer.Write([]string{"date", "company", countColumn, "industry", "location"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.Date.Format("2006-01-02"),
			e.Company,
			strconv.Itoa(e.Count),
			e.Industry,
			e.Location,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", e.Company, err)
		}
	}

	return nil
}

// randBetween returns a uniform value in [low, high]
func randBetween(rng *rand.Rand, low, high int) int {
	return low + rng.Intn(high-low+1)
}
