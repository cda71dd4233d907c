package domain

import (
	"fmt"
	"time"
)

// EventKind distinguishes workforce reductions from workforce additions.
type EventKind string

const (
	EventKindLayoff EventKind = "layoff"
	EventKindHire   EventKind = "hire"
)

// EmploymentEvent represents a single tracked workforce change announcement
// for a company: either a layoff round or a hiring wave.
type EmploymentEvent struct {
	Date     time.Time `json:"date" csv:"Date"`
	Company  string    `json:"company" csv:"Company" validate:"required"`
	Industry string    `json:"industry" csv:"Industry"`
	Location string    `json:"location" csv:"Location"`
	Count    int       `json:"count" csv:"Count" validate:"min=0"`
	Kind     EventKind `json:"kind" csv:"Kind" validate:"required,oneof=layoff hire"`
}

// Year returns the calendar year of the event.
func (e EmploymentEvent) Year() int {
	return e.Date.Year()
}

// Month returns the calendar month of the event (1-12).
func (e EmploymentEvent) Month() int {
	return int(e.Date.Month())
}

// Quarter returns the calendar quarter of the event as "Q1".."Q4".
func (e EmploymentEvent) Quarter() string {
	return fmt.Sprintf("Q%d", (int(e.Date.Month())-1)/3+1)
}

// Period identifies a company-month cell in the unified dataset.
type Period struct {
	Company string `json:"company"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

// Date returns the first day of the period's month in UTC.
func (p Period) Date() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// FusedRecord is one row of the unified dataset: layoffs and hires for a
// company-month merged from both sources, with derived metrics.
type FusedRecord struct {
	Company         string    `json:"company"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Industry        string    `json:"industry"`
	Location        string    `json:"location"`
	Layoffs         int       `json:"layoffs"`
	Hires           int       `json:"hires"`
	NetChange       int       `json:"net_change"`
	EmploymentRatio float64   `json:"employment_ratio"`
	Date            time.Time `json:"date"`
}

// Quarter returns the calendar quarter of the record as "Q1".."Q4".
func (r FusedRecord) Quarter() string {
	return fmt.Sprintf("Q%d", (r.Month-1)/3+1)
}

// IndustryTrend aggregates yearly employment activity for one industry.
type IndustryTrend struct {
	Industry  string `json:"industry"`
	Year      int    `json:"year"`
	Layoffs   int    `json:"layoffs"`
	Hires     int    `json:"hires"`
	NetChange int    `json:"net_change"`
}

// CompanySummary aggregates total employment activity for one company.
type CompanySummary struct {
	Company   string `json:"company"`
	Industry  string `json:"industry"`
	Layoffs   int    `json:"layoffs"`
	Hires     int    `json:"hires"`
	NetChange int    `json:"net_change"`
}

// MonthlyPoint is one point of a monthly time series.
type MonthlyPoint struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Date    time.Time `json:"date"`
	Layoffs int       `json:"layoffs"`
	Hires   int       `json:"hires"`
}

// NetChange returns hires minus layoffs for the point.
func (p MonthlyPoint) NetChange() int {
	return p.Hires - p.Layoffs
}

// IndustryImpact records total layoffs attributed to one industry.
type IndustryImpact struct {
	Industry string `json:"industry"`
	Layoffs  int    `json:"layoffs"`
}

// SummaryStats holds the headline figures of the unified dataset.
type SummaryStats struct {
	TotalLayoffs        int              `json:"total_layoffs"`
	TotalHires          int              `json:"total_hires"`
	NetEmploymentChange int              `json:"net_employment_change"`
	ActiveCompanies     int              `json:"active_companies"`
	TopLayoffCompanies  []CompanySummary `json:"top_layoff_companies"`
	TopHiringCompanies  []CompanySummary `json:"top_hiring_companies"`
	MonthlySeries       []MonthlyPoint   `json:"monthly_series"`
	IndustryImpact      []IndustryImpact `json:"industry_impact"`
}
