package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse/internal/fusion"
	"techpulse/pkg/contracts/domain"
)

func event(kind domain.EventKind, company string, year, month, count int, industry string) domain.EmploymentEvent {
	return domain.EmploymentEvent{
		Date:     time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.UTC),
		Company:  company,
		Industry: industry,
		Count:    count,
		Kind:     kind,
	}
}

func TestGenerateReportFindings(t *testing.T) {
	layoffs := []domain.EmploymentEvent{
		event(domain.EventKindLayoff, "Meta", 2022, 11, 11000, "Social Media"),
		event(domain.EventKindLayoff, "Google", 2023, 1, 2000, "Search/Cloud"),
		event(domain.EventKindLayoff, "Intel", 2021, 4, 500, "Semiconductors"),
	}
	hires := []domain.EmploymentEvent{
		event(domain.EventKindHire, "Zoom", 2020, 5, 3000, "Video Conferencing"),
		event(domain.EventKindHire, "NVIDIA", 2023, 6, 4000, "Semiconductors"),
	}
	fused := fusion.Fuse(layoffs, hires)

	report := GenerateReport(layoffs, hires, fused)

	require.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights[0], "2022")
	assert.Contains(t, report.Insights[0], "11,000")

	joined := ""
	for _, s := range report.Insights {
		joined += s + "\n"
	}
	assert.Contains(t, joined, "Most affected industry: Social Media")
	assert.Contains(t, joined, "Top net hirer: NVIDIA")
	assert.Contains(t, joined, "November")
	// 2023: 4000 hires vs 2000 layoffs, positive net
	assert.Contains(t, joined, "Recovery signal: 2023")

	assert.Len(t, report.Recommendations, 4)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestGenerateReportEmptyInputs(t *testing.T) {
	report := GenerateReport(nil, nil, nil)

	assert.Empty(t, report.Insights)
	assert.Empty(t, report.Predictions)
	assert.Len(t, report.Recommendations, 4)
	assert.Equal(t, HealthStable, report.Health.Status)
	assert.Equal(t, VolatilityLow, report.Health.VolatilityLevel)
}

func TestPredictTrends(t *testing.T) {
	tests := []struct {
		name        string
		fused       []domain.FusedRecord
		wantPhrases []string
	}{
		{
			name: "rising layoffs falling hires",
			fused: []domain.FusedRecord{
				{Company: "A", Year: 2022, Month: 1, Industry: "Software", Layoffs: 1000, Hires: 2000, NetChange: 1000},
				{Company: "A", Year: 2023, Month: 1, Industry: "Software", Layoffs: 2000, Hires: 1000, NetChange: -1000},
			},
			wantPhrases: []string{"economic headwinds", "cautious market sentiment"},
		},
		{
			name: "falling layoffs rising hires",
			fused: []domain.FusedRecord{
				{Company: "A", Year: 2022, Month: 1, Industry: "Fintech", Layoffs: 2000, Hires: 1000, NetChange: -1000},
				{Company: "A", Year: 2023, Month: 1, Industry: "Fintech", Layoffs: 500, Hires: 3000, NetChange: 2500},
			},
			wantPhrases: []string{"market stabilization", "expanding job market"},
		},
		{
			name: "flat year over year",
			fused: []domain.FusedRecord{
				{Company: "A", Year: 2022, Month: 1, Industry: "Software", Layoffs: 1000, Hires: 1000},
				{Company: "A", Year: 2023, Month: 1, Industry: "Software", Layoffs: 1050, Hires: 950, NetChange: -100},
			},
			wantPhrases: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictions := predictTrends(tt.fused)
			joined := ""
			for _, p := range predictions {
				joined += p + "\n"
			}
			for _, phrase := range tt.wantPhrases {
				assert.Contains(t, joined, phrase)
			}
			if len(tt.fused) > 0 {
				assert.Contains(t, joined, "Industry momentum")
			}
		})
	}
}

func TestPredictTrendsSingleYear(t *testing.T) {
	fused := []domain.FusedRecord{
		{Company: "A", Year: 2023, Month: 1, Industry: "Software", Layoffs: 100, Hires: 400, NetChange: 300},
	}
	predictions := predictTrends(fused)
	// No YoY trend with one year, but momentum is still reported
	require.Len(t, predictions, 1)
	assert.Contains(t, predictions[0], "Software")
}

func TestAssessHealth(t *testing.T) {
	tests := []struct {
		name       string
		layoffs    []domain.EmploymentEvent
		hires      []domain.EmploymentEvent
		wantStatus string
	}{
		{
			name: "healthy when latest year net positive",
			layoffs: []domain.EmploymentEvent{
				event(domain.EventKindLayoff, "A", 2023, 1, 100, "Software"),
			},
			hires: []domain.EmploymentEvent{
				event(domain.EventKindHire, "A", 2023, 2, 500, "Software"),
			},
			wantStatus: HealthHealthy,
		},
		{
			name: "challenging when losses exceed threshold",
			layoffs: []domain.EmploymentEvent{
				event(domain.EventKindLayoff, "A", 2023, 1, 5000, "Software"),
			},
			hires: []domain.EmploymentEvent{
				event(domain.EventKindHire, "A", 2023, 2, 500, "Software"),
			},
			wantStatus: HealthChallenging,
		},
		{
			name: "stable within threshold",
			layoffs: []domain.EmploymentEvent{
				event(domain.EventKindLayoff, "A", 2023, 1, 800, "Software"),
			},
			hires: []domain.EmploymentEvent{
				event(domain.EventKindHire, "A", 2023, 2, 300, "Software"),
			},
			wantStatus: HealthStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := assessHealth(tt.layoffs, tt.hires)
			assert.Equal(t, tt.wantStatus, health.Status)
			assert.Equal(t, 2023, health.LatestYear)
		})
	}
}

func TestVolatilityBands(t *testing.T) {
	// Layoffs vary far more year-to-year than hires
	layoffs := []domain.EmploymentEvent{
		event(domain.EventKindLayoff, "A", 2021, 1, 100, "Software"),
		event(domain.EventKindLayoff, "A", 2022, 1, 5000, "Software"),
		event(domain.EventKindLayoff, "A", 2023, 1, 200, "Software"),
	}
	hires := []domain.EmploymentEvent{
		event(domain.EventKindHire, "A", 2021, 1, 1000, "Software"),
		event(domain.EventKindHire, "A", 2022, 1, 1100, "Software"),
		event(domain.EventKindHire, "A", 2023, 1, 900, "Software"),
	}

	health := assessHealth(layoffs, hires)
	assert.Greater(t, health.VolatilityRatio, 1.2)
	assert.Equal(t, VolatilityHigh, health.VolatilityLevel)
}

func TestStddev(t *testing.T) {
	assert.Zero(t, stddev(nil))
	assert.Zero(t, stddev([]float64{5}))
	assert.InDelta(t, 1.0, stddev([]float64{1, 2, 3}), 1e-9)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1,000", formatCount(1000))
	assert.Equal(t, "12,345,678", formatCount(12345678))
	assert.Equal(t, "-1,500", formatCount(-1500))
}
