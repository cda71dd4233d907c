package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse/internal/dataprocessing"
	"techpulse/pkg/contracts/domain"
)

func seededConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func TestGenerateCounts(t *testing.T) {
	layoffs, hires := Generate(seededConfig())

	assert.Len(t, layoffs, 500)
	assert.Len(t, hires, 600)

	for _, e := range layoffs {
		assert.Equal(t, domain.EventKindLayoff, e.Kind)
		assert.GreaterOrEqual(t, e.Date.Year(), 2020)
		assert.LessOrEqual(t, e.Date.Year(), 2024)
		assert.NotEmpty(t, e.Company)
		assert.NotEmpty(t, e.Industry)
		assert.NotEmpty(t, e.Location)

		if e.Date.Year() == 2022 || e.Date.Year() == 2023 {
			assert.GreaterOrEqual(t, e.Count, 50)
			assert.LessOrEqual(t, e.Count, 2000)
		} else {
			assert.GreaterOrEqual(t, e.Count, 10)
			assert.LessOrEqual(t, e.Count, 500)
		}
	}

	for _, e := range hires {
		assert.Equal(t, domain.EventKindHire, e.Kind)
		switch e.Date.Year() {
		case 2020, 2021:
			assert.GreaterOrEqual(t, e.Count, 100)
			assert.LessOrEqual(t, e.Count, 3000)
		case 2022, 2023:
			assert.GreaterOrEqual(t, e.Count, 20)
			assert.LessOrEqual(t, e.Count, 800)
		default:
			assert.GreaterOrEqual(t, e.Count, 50)
			assert.LessOrEqual(t, e.Count, 1500)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	layoffsA, hiresA := Generate(seededConfig())
	layoffsB, hiresB := Generate(seededConfig())

	assert.Equal(t, layoffsA, layoffsB)
	assert.Equal(t, hiresA, hiresB)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	layoffs, hires := Generate(seededConfig())

	layoffsPath := filepath.Join(dir, "layoffs.csv")
	hiringPath := filepath.Join(dir, "hiring.csv")

	require.NoError(t, WriteCSV(layoffs, domain.EventKindLayoff, layoffsPath))
	require.NoError(t, WriteCSV(hires, domain.EventKindHire, hiringPath))

	parsedLayoffs, err := dataprocessing.ParseCSV(layoffsPath, domain.EventKindLayoff)
	require.NoError(t, err)
	require.Len(t, parsedLayoffs, len(layoffs))
	assert.Equal(t, layoffs[0].Company, parsedLayoffs[0].Company)
	assert.Equal(t, layoffs[0].Count, parsedLayoffs[0].Count)

	parsedHires, err := dataprocessing.ParseCSV(hiringPath, domain.EventKindHire)
	require.NoError(t, err)
	assert.Len(t, parsedHires, len(hires))
}
