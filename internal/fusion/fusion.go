// Package fusion merges layoff and hiring events into the unified
// employment dataset and derives its aggregate views.
package fusion

import (
	"sort"

	"techpulse/pkg/contracts/domain"
)

// sourceCell accumulates one company-month from a single source
type sourceCell struct {
	count    int
	industry string
	location string
}

// Fuse aggregates both sources by company-month and outer-merges them
// into one record per company-month. Missing sides are zero-filled.
// Industry and location come from the layoffs side when both sources
// carry them. Output ordering is deterministic: company, then period.
func Fuse(layoffs, hires []domain.EmploymentEvent) []domain.FusedRecord {
	layoffCells := aggregateMonthly(layoffs)
	hireCells := aggregateMonthly(hires)

	periods := make(map[domain.Period]struct{}, len(layoffCells)+len(hireCells))
	for p := range layoffCells {
		periods[p] = struct{}{}
	}
	for p := range hireCells {
		periods[p] = struct{}{}
	}

	records := make([]domain.FusedRecord, 0, len(periods))
	for p := range periods {
		l, hasLayoffs := layoffCells[p]
		h, hasHires := hireCells[p]

		industry := l.industry
		if industry == "" && hasHires {
			industry = h.industry
		}
		location := l.location
		if location == "" && hasHires {
			location = h.location
		}

		record := domain.FusedRecord{
			Company:  p.Company,
			Year:     p.Year,
			Month:    p.Month,
			Industry: industry,
			Location: location,
			Date:     p.Date(),
		}
		if hasLayoffs {
			record.Layoffs = l.count
		}
		if hasHires {
			record.Hires = h.count
		}
		record.NetChange = record.Hires - record.Layoffs
		// +1 keeps the ratio defined for months without layoffs
		record.EmploymentRatio = float64(record.Hires) / float64(record.Layoffs+1)

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Company != records[j].Company {
			return records[i].Company < records[j].Company
		}
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Month < records[j].Month
	})

	return records
}

// aggregateMonthly sums duplicate company-month events. The first event
// seen for a cell supplies industry and location.
func aggregateMonthly(events []domain.EmploymentEvent) map[domain.Period]sourceCell {
	cells := make(map[domain.Period]sourceCell)
	for _, e := range events {
		p := domain.Period{Company: e.Company, Year: e.Year(), Month: e.Month()}
		cell, seen := cells[p]
		cell.count += e.Count
		if !seen {
			cell.industry = e.Industry
			cell.location = e.Location
		}
		cells[p] = cell
	}
	return cells
}

// IndustryTrends aggregates yearly layoffs and hires per industry with an
// outer merge and zero-fill, ordered by industry then year.
func IndustryTrends(layoffs, hires []domain.EmploymentEvent) []domain.IndustryTrend {
	type key struct {
		industry string
		year     int
	}

	totals := make(map[key]*domain.IndustryTrend)
	add := func(events []domain.EmploymentEvent, layoffSide bool) {
		for _, e := range events {
			k := key{industry: e.Industry, year: e.Year()}
			trend, ok := totals[k]
			if !ok {
				trend = &domain.IndustryTrend{Industry: e.Industry, Year: e.Year()}
				totals[k] = trend
			}
			if layoffSide {
				trend.Layoffs += e.Count
			} else {
				trend.Hires += e.Count
			}
		}
	}
	add(layoffs, true)
	add(hires, false)

	trends := make([]domain.IndustryTrend, 0, len(totals))
	for _, trend := range totals {
		trend.NetChange = trend.Hires - trend.Layoffs
		trends = append(trends, *trend)
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Industry != trends[j].Industry {
			return trends[i].Industry < trends[j].Industry
		}
		return trends[i].Year < trends[j].Year
	})

	return trends
}

// Summarize computes the headline statistics of the dataset: totals,
// top-10 company rankings, the monthly series and per-industry layoff
// impact.
func Summarize(layoffs, hires []domain.EmploymentEvent) domain.SummaryStats {
	stats := domain.SummaryStats{}

	companies := make(map[string]struct{})
	for _, e := range layoffs {
		stats.TotalLayoffs += e.Count
		companies[e.Company] = struct{}{}
	}
	for _, e := range hires {
		stats.TotalHires += e.Count
		companies[e.Company] = struct{}{}
	}
	stats.NetEmploymentChange = stats.TotalHires - stats.TotalLayoffs
	stats.ActiveCompanies = len(companies)

	stats.TopLayoffCompanies = topCompanies(layoffs, hires, true)
	stats.TopHiringCompanies = topCompanies(layoffs, hires, false)
	stats.MonthlySeries = monthlySeries(layoffs, hires)
	stats.IndustryImpact = industryImpact(layoffs)

	return stats
}

const topCompanyLimit = 10

// topCompanies ranks companies by their total on one side, descending,
// ties broken by name. At most ten entries are returned.
func topCompanies(layoffs, hires []domain.EmploymentEvent, byLayoffs bool) []domain.CompanySummary {
	totals := make(map[string]*domain.CompanySummary)
	add := func(events []domain.EmploymentEvent, layoffSide bool) {
		for _, e := range events {
			summary, ok := totals[e.Company]
			if !ok {
				summary = &domain.CompanySummary{Company: e.Company, Industry: e.Industry}
				totals[e.Company] = summary
			}
			if summary.Industry == "" {
				summary.Industry = e.Industry
			}
			if layoffSide {
				summary.Layoffs += e.Count
			} else {
				summary.Hires += e.Count
			}
		}
	}
	add(layoffs, true)
	add(hires, false)

	summaries := make([]domain.CompanySummary, 0, len(totals))
	for _, summary := range totals {
		summary.NetChange = summary.Hires - summary.Layoffs
		summaries = append(summaries, *summary)
	}

	rank := func(s domain.CompanySummary) int {
		if byLayoffs {
			return s.Layoffs
		}
		return s.Hires
	}

	sort.Slice(summaries, func(i, j int) bool {
		if rank(summaries[i]) != rank(summaries[j]) {
			return rank(summaries[i]) > rank(summaries[j])
		}
		return summaries[i].Company < summaries[j].Company
	})

	// Companies inactive on the ranked side do not belong in the ranking
	cutoff := len(summaries)
	for i, s := range summaries {
		if rank(s) == 0 {
			cutoff = i
			break
		}
	}
	summaries = summaries[:cutoff]

	if len(summaries) > topCompanyLimit {
		summaries = summaries[:topCompanyLimit]
	}
	return summaries
}

// monthlySeries builds the layoffs/hires time series across all months
// present in either source, ordered chronologically.
func monthlySeries(layoffs, hires []domain.EmploymentEvent) []domain.MonthlyPoint {
	type key struct {
		year  int
		month int
	}

	points := make(map[key]*domain.MonthlyPoint)
	add := func(events []domain.EmploymentEvent, layoffSide bool) {
		for _, e := range events {
			k := key{year: e.Year(), month: e.Month()}
			point, ok := points[k]
			if !ok {
				point = &domain.MonthlyPoint{
					Year:  k.year,
					Month: k.month,
					Date:  domain.Period{Year: k.year, Month: k.month}.Date(),
				}
				points[k] = point
			}
			if layoffSide {
				point.Layoffs += e.Count
			} else {
				point.Hires += e.Count
			}
		}
	}
	add(layoffs, true)
	add(hires, false)

	series := make([]domain.MonthlyPoint, 0, len(points))
	for _, point := range points {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// industryImpact totals layoffs per industry, heaviest hit first
func industryImpact(layoffs []domain.EmploymentEvent) []domain.IndustryImpact {
	totals := make(map[string]int)
	for _, e := range layoffs {
		totals[e.Industry] += e.Count
	}

	impact := make([]domain.IndustryImpact, 0, len(totals))
	for industry, count := range totals {
		impact = append(impact, domain.IndustryImpact{Industry: industry, Layoffs: count})
	}
	sort.Slice(impact, func(i, j int) bool {
		if impact[i].Layoffs != impact[j].Layoffs {
			return impact[i].Layoffs > impact[j].Layoffs
		}
		return impact[i].Industry < impact[j].Industry
	})
	return impact
}
