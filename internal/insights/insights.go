// Package insights derives narrative findings, trend predictions and a
// market health assessment from the fused employment dataset.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"techpulse/pkg/contracts/domain"
)

// Health statuses for the overall market assessment
const (
	HealthHealthy     = "healthy"
	HealthStable      = "stable"
	HealthChallenging = "challenging"
)

// Volatility levels derived from the layoff/hiring volatility ratio
const (
	VolatilityHigh     = "high"
	VolatilityModerate = "moderate"
	VolatilityLow      = "low"
)

// MarketHealth summarizes the current state of the employment market
type MarketHealth struct {
	Status          string  `json:"status"`
	LatestYear      int     `json:"latest_year"`
	RecentNetChange int     `json:"recent_net_change"`
	VolatilityRatio float64 `json:"volatility_ratio"`
	VolatilityLevel string  `json:"volatility_level"`
}

// Report is the full analytical output for one dataset snapshot
type Report struct {
	GeneratedAt     time.Time    `json:"generated_at"`
	Insights        []string     `json:"insights"`
	Predictions     []string     `json:"predictions"`
	Recommendations []string     `json:"recommendations"`
	Health          MarketHealth `json:"market_health"`
}

// GenerateReport runs the full rule set over both sources and the fused
// dataset. Empty inputs yield an empty but valid report.
func GenerateReport(layoffs, hires []domain.EmploymentEvent, fused []domain.FusedRecord) Report {
	return Report{
		GeneratedAt:     time.Now().UTC(),
		Insights:        analyze(layoffs, hires, fused),
		Predictions:     predictTrends(fused),
		Recommendations: recommendations(),
		Health:          assessHealth(layoffs, hires),
	}
}

// analyze produces the narrative findings: peaks, industry impact, top
// net hirer, seasonality, recovery signal and volatility comparison.
func analyze(layoffs, hires []domain.EmploymentEvent, fused []domain.FusedRecord) []string {
	var insights []string

	yearlyLayoffs := yearlyTotals(layoffs)
	yearlyHires := yearlyTotals(hires)

	if year, total, ok := maxByKey(yearlyLayoffs); ok {
		insights = append(insights, fmt.Sprintf(
			"Peak layoffs: %d saw the highest layoffs with %s jobs lost.", year, formatCount(total)))
	}

	if year, total, ok := maxByKey(yearlyHires); ok {
		insights = append(insights, fmt.Sprintf(
			"Peak hiring: %d had the strongest hiring with %s new positions.", year, formatCount(total)))
	}

	if industry, total, ok := topIndustryByLayoffs(layoffs); ok {
		insights = append(insights, fmt.Sprintf(
			"Most affected industry: %s experienced the highest layoffs (%s jobs).", industry, formatCount(total)))
	}

	if company, net, ok := topNetHirer(fused); ok {
		insights = append(insights, fmt.Sprintf(
			"Top net hirer: %s has the highest net employment growth (%+d positions).", company, net))
	}

	if month, _, ok := maxByKey(monthlyTotals(layoffs)); ok {
		insights = append(insights, fmt.Sprintf(
			"Seasonal pattern: %s typically sees the highest layoff activity.", time.Month(month)))
	}

	if year, ok := latestYear(yearlyHires); ok {
		recentNet := yearlyHires[year] - yearlyLayoffs[year]
		if recentNet > 0 {
			insights = append(insights, fmt.Sprintf(
				"Recovery signal: %d shows positive net employment growth (%+d jobs).", year, recentNet))
		} else {
			insights = append(insights, fmt.Sprintf(
				"Continued challenges: %d still shows net job losses (%d jobs).", year, recentNet))
		}
	}

	if len(yearlyLayoffs) > 0 || len(yearlyHires) > 0 {
		if stddev(values(yearlyLayoffs)) > stddev(values(yearlyHires)) {
			insights = append(insights,
				"Market volatility: layoff patterns show higher volatility than hiring, indicating uncertain market conditions.")
		} else {
			insights = append(insights,
				"Market stability: hiring patterns are more volatile than layoffs, suggesting dynamic growth opportunities.")
		}
	}

	return insights
}

// growthThreshold is the year-over-year change treated as significant
const growthThreshold = 0.1

// predictTrends derives forward-looking statements from year-over-year
// growth and recent industry momentum.
func predictTrends(fused []domain.FusedRecord) []string {
	var predictions []string

	type yearTotals struct {
		layoffs int
		hires   int
	}
	byYear := make(map[int]*yearTotals)
	for _, r := range fused {
		t, ok := byYear[r.Year]
		if !ok {
			t = &yearTotals{}
			byYear[r.Year] = t
		}
		t.layoffs += r.Layoffs
		t.hires += r.Hires
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	if len(years) >= 2 {
		latest := byYear[years[len(years)-1]]
		previous := byYear[years[len(years)-2]]

		layoffGrowth := pctChange(previous.layoffs, latest.layoffs)
		hiringGrowth := pctChange(previous.hires, latest.hires)

		if layoffGrowth < -growthThreshold {
			predictions = append(predictions,
				"Layoff trend: decreasing layoff activity suggests market stabilization.")
		} else if layoffGrowth > growthThreshold {
			predictions = append(predictions,
				"Layoff trend: increasing layoffs may indicate economic headwinds ahead.")
		}

		if hiringGrowth > growthThreshold {
			predictions = append(predictions,
				"Hiring trend: strong hiring growth indicates expanding job market opportunities.")
		} else if hiringGrowth < -growthThreshold {
			predictions = append(predictions,
				"Hiring trend: declining hiring activity suggests cautious market sentiment.")
		}
	}

	if industry, ok := strongestRecentIndustry(fused, years); ok {
		predictions = append(predictions, fmt.Sprintf(
			"Industry momentum: %s shows strongest recent employment growth.", industry))
	}

	return predictions
}

// recommendations returns the standing strategic guidance for the four
// audience groups.
func recommendations() []string {
	return []string{
		"For job seekers: focus on industries showing positive net employment growth and consider companies with strong hiring patterns.",
		"For employers: monitor seasonal hiring patterns and consider counter-cyclical recruitment strategies during low-activity periods.",
		"For investors: track employment trends as leading indicators of company performance and market health.",
		"For policymakers: consider targeted support for industries experiencing significant layoffs while fostering growth in expanding sectors.",
	}
}

// challengingNetChange is the latest-year net change below which the
// market counts as challenging.
const challengingNetChange = -1000

// assessHealth classifies the market from the latest-year net change and
// the layoff/hiring volatility ratio.
func assessHealth(layoffs, hires []domain.EmploymentEvent) MarketHealth {
	yearlyLayoffs := yearlyTotals(layoffs)
	yearlyHires := yearlyTotals(hires)

	health := MarketHealth{Status: HealthStable, VolatilityLevel: VolatilityLow}

	year, ok := latestYear(yearlyLayoffs)
	if hireYear, hireOK := latestYear(yearlyHires); hireOK && (!ok || hireYear > year) {
		year, ok = hireYear, true
	}
	if !ok {
		return health
	}

	health.LatestYear = year
	health.RecentNetChange = yearlyHires[year] - yearlyLayoffs[year]

	switch {
	case health.RecentNetChange > 0:
		health.Status = HealthHealthy
	case health.RecentNetChange < challengingNetChange:
		health.Status = HealthChallenging
	default:
		health.Status = HealthStable
	}

	hireStd := stddev(values(yearlyHires))
	if hireStd > 0 {
		health.VolatilityRatio = stddev(values(yearlyLayoffs)) / hireStd
	}

	switch {
	case health.VolatilityRatio > 1.2:
		health.VolatilityLevel = VolatilityHigh
	case health.VolatilityRatio > 0.8:
		health.VolatilityLevel = VolatilityModerate
	default:
		health.VolatilityLevel = VolatilityLow
	}

	return health
}

// yearlyTotals sums event counts per calendar year
func yearlyTotals(events []domain.EmploymentEvent) map[int]int {
	totals := make(map[int]int)
	for _, e := range events {
		totals[e.Year()] += e.Count
	}
	return totals
}

// monthlyTotals sums event counts per calendar month across all years
func monthlyTotals(events []domain.EmploymentEvent) map[int]int {
	totals := make(map[int]int)
	for _, e := range events {
		totals[e.Month()] += e.Count
	}
	return totals
}

// maxByKey returns the key with the largest total, smallest key winning
// ties so the result is deterministic.
func maxByKey(totals map[int]int) (key, total int, ok bool) {
	for k, v := range totals {
		if !ok || v > total || (v == total && k < key) {
			key, total, ok = k, v, true
		}
	}
	return key, total, ok
}

// latestYear returns the most recent year present in the totals
func latestYear(totals map[int]int) (int, bool) {
	year, ok := 0, false
	for y := range totals {
		if !ok || y > year {
			year, ok = y, true
		}
	}
	return year, ok
}

func topIndustryByLayoffs(layoffs []domain.EmploymentEvent) (string, int, bool) {
	totals := make(map[string]int)
	for _, e := range layoffs {
		totals[e.Industry] += e.Count
	}
	industry, top, ok := "", 0, false
	for name, total := range totals {
		if !ok || total > top || (total == top && name < industry) {
			industry, top, ok = name, total, true
		}
	}
	return industry, top, ok
}

func topNetHirer(fused []domain.FusedRecord) (string, int, bool) {
	totals := make(map[string]int)
	for _, r := range fused {
		totals[r.Company] += r.NetChange
	}
	company, top, ok := "", 0, false
	for name, net := range totals {
		if !ok || net > top || (net == top && name < company) {
			company, top, ok = name, net, true
		}
	}
	return company, top, ok
}

// strongestRecentIndustry ranks industries by net change over the last
// two years present in the dataset.
func strongestRecentIndustry(fused []domain.FusedRecord, sortedYears []int) (string, bool) {
	if len(sortedYears) == 0 {
		return "", false
	}
	cutoff := sortedYears[len(sortedYears)-1] - 1

	totals := make(map[string]int)
	for _, r := range fused {
		if r.Year >= cutoff {
			totals[r.Industry] += r.NetChange
		}
	}

	industry, top, ok := "", 0, false
	for name, net := range totals {
		if !ok || net > top || (net == top && name < industry) {
			industry, top, ok = name, net, true
		}
	}
	return industry, ok
}

// pctChange returns the relative change from previous to current
func pctChange(previous, current int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous)
}

// stddev computes the sample standard deviation
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	sum := 0.0
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func values(totals map[int]int) []float64 {
	vals := make([]float64, 0, len(totals))
	for _, v := range totals {
		vals = append(vals, float64(v))
	}
	return vals
}

// formatCount renders an integer with thousands separators
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
