package dataprocessing

import (
	"techpulse/pkg/contracts/domain"
)

// Filter narrows a dataset to the selected companies, years, months and
// industries. Empty criteria match everything.
type Filter struct {
	Companies  []string
	Years      []int
	Months     []int
	Industries []string
}

// IsZero reports whether the filter has no criteria at all
func (f Filter) IsZero() bool {
	return len(f.Companies) == 0 && len(f.Years) == 0 && len(f.Months) == 0 && len(f.Industries) == 0
}

// Match reports whether an event satisfies every non-empty criterion
func (f Filter) Match(e domain.EmploymentEvent) bool {
	return f.matches(e.Company, e.Year(), e.Month(), e.Industry)
}

// MatchFused reports whether a fused record satisfies every non-empty criterion
func (f Filter) MatchFused(r domain.FusedRecord) bool {
	return f.matches(r.Company, r.Year, r.Month, r.Industry)
}

// Apply returns the events that pass the filter. A zero filter returns
// the input slice unchanged.
func (f Filter) Apply(events []domain.EmploymentEvent) []domain.EmploymentEvent {
	if f.IsZero() {
		return events
	}
	filtered := make([]domain.EmploymentEvent, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ApplyFused returns the fused records that pass the filter
func (f Filter) ApplyFused(records []domain.FusedRecord) []domain.FusedRecord {
	if f.IsZero() {
		return records
	}
	filtered := make([]domain.FusedRecord, 0, len(records))
	for _, r := range records {
		if f.MatchFused(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (f Filter) matches(company string, year, month int, industry string) bool {
	if len(f.Companies) > 0 && !containsString(f.Companies, company) {
		return false
	}
	if len(f.Years) > 0 && !containsInt(f.Years, year) {
		return false
	}
	if len(f.Months) > 0 && !containsInt(f.Months, month) {
		return false
	}
	if len(f.Industries) > 0 && !containsString(f.Industries, industry) {
		return false
	}
	return true
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
