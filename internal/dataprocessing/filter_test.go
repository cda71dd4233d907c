package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"techpulse/pkg/contracts/domain"
)

func sampleEvents() []domain.EmploymentEvent {
	return []domain.EmploymentEvent{
		{Date: time.Date(2022, 11, 9, 0, 0, 0, 0, time.UTC), Company: "Meta", Industry: "Social Media", Count: 11000, Kind: domain.EventKindLayoff},
		{Date: time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC), Company: "Google", Industry: "Search/Cloud", Count: 12000, Kind: domain.EventKindLayoff},
		{Date: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Company: "Zoom", Industry: "Video Conferencing", Count: 800, Kind: domain.EventKindHire},
	}
}

func TestFilterApply(t *testing.T) {
	events := sampleEvents()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "zero filter returns everything",
			filter: Filter{},
			want:   []string{"Meta", "Google", "Zoom"},
		},
		{
			name:   "by company",
			filter: Filter{Companies: []string{"Meta"}},
			want:   []string{"Meta"},
		},
		{
			name:   "by year",
			filter: Filter{Years: []int{2023}},
			want:   []string{"Google"},
		},
		{
			name:   "by month",
			filter: Filter{Months: []int{6}},
			want:   []string{"Zoom"},
		},
		{
			name:   "by industry",
			filter: Filter{Industries: []string{"Social Media", "Search/Cloud"}},
			want:   []string{"Meta", "Google"},
		},
		{
			name:   "combined criteria",
			filter: Filter{Years: []int{2022, 2023}, Companies: []string{"Google", "Zoom"}},
			want:   []string{"Google"},
		},
		{
			name:   "no matches",
			filter: Filter{Companies: []string{"Netflix"}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(events)
			companies := make([]string, 0, len(got))
			for _, e := range got {
				companies = append(companies, e.Company)
			}
			assert.Equal(t, tt.want, companies)
		})
	}
}

func TestFilterApplyFused(t *testing.T) {
	records := []domain.FusedRecord{
		{Company: "Meta", Year: 2022, Month: 11, Industry: "Social Media"},
		{Company: "Zoom", Year: 2021, Month: 6, Industry: "Video Conferencing"},
	}

	got := Filter{Years: []int{2021}}.ApplyFused(records)
	assert.Len(t, got, 1)
	assert.Equal(t, "Zoom", got[0].Company)

	assert.Len(t, Filter{}.ApplyFused(records), 2)
}
