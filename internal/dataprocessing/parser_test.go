package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse/pkg/contracts/domain"
)

func TestParseCSVReader(t *testing.T) {
	input := `date,company,layoffs,industry,location
2022-11-09,Meta,11000,Social Media,San Francisco
2023-01-20,Google,12000,Search/Cloud,Seattle
`
	events, err := ParseCSVReader(strings.NewReader(input), domain.EventKindLayoff)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Meta", events[0].Company)
	assert.Equal(t, 11000, events[0].Count)
	assert.Equal(t, domain.EventKindLayoff, events[0].Kind)
	assert.Equal(t, time.Date(2022, 11, 9, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, "Search/Cloud", events[1].Industry)
}

func TestParseCSVReaderColumnOrderIndependent(t *testing.T) {
	input := `company,location,hires,date,industry
Spotify,Remote,250,2021-03-01,Music
`
	events, err := ParseCSVReader(strings.NewReader(input), domain.EventKindHire)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Spotify", events[0].Company)
	assert.Equal(t, 250, events[0].Count)
	assert.Equal(t, domain.EventKindHire, events[0].Kind)
}

func TestParseCSVReaderAcceptsAlternateCountColumn(t *testing.T) {
	input := `date,company,layoff_count
2022-06-01,Uber,300
`
	events, err := ParseCSVReader(strings.NewReader(input), domain.EventKindLayoff)
	require.NoError(t, err)
	assert.Equal(t, 300, events[0].Count)
}

func TestParseCSVReaderSkipsBlankRows(t *testing.T) {
	input := `date,company,hires
2020-05-01,Zoom,1200

2021-08-15,Slack,400
`
	events, err := ParseCSVReader(strings.NewReader(input), domain.EventKindHire)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestParseCSVReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty file",
			input: "",
		},
		{
			name:  "missing count column",
			input: "date,company\n2022-01-01,Meta\n",
		},
		{
			name:  "bad date",
			input: "date,company,layoffs\nnot-a-date,Meta,100\n",
		},
		{
			name:  "negative count",
			input: "date,company,layoffs\n2022-01-01,Meta,-5\n",
		},
		{
			name:  "missing company",
			input: "date,company,layoffs\n2022-01-01,,100\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSVReader(strings.NewReader(tt.input), domain.EventKindLayoff)
			assert.Error(t, err)
		})
	}
}

func TestParseCSVReaderFloatCounts(t *testing.T) {
	input := "date,company,hires\n2023-04-01,Adobe,120.0\n"
	events, err := ParseCSVReader(strings.NewReader(input), domain.EventKindHire)
	require.NoError(t, err)
	assert.Equal(t, 120, events[0].Count)
}

func TestParseCSVFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layoffs.csv")
	content := "date,company,layoffs,industry,location\n2022-01-10,Intel,500,Semiconductors,Austin\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	events, err := ParseCSV(path, domain.EventKindLayoff)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Intel", events[0].Company)

	_, err = ParseCSV(filepath.Join(dir, "missing.csv"), domain.EventKindLayoff)
	assert.Error(t, err)
}

func TestParseDateLayouts(t *testing.T) {
	for _, value := range []string{"2022-03-05", "2022-03-05 00:00:00", "03/05/2022", "2022/03/05"} {
		got, err := parseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2022, got.Year())
		assert.Equal(t, time.March, got.Month())
	}
}
