package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"techpulse/internal/config"
	apierrors "techpulse/internal/errors"
	"techpulse/internal/services"
)

const testLayoffsCSV = `date,company,layoffs,industry,location
2022-11-01,Meta,11000,Technology,Menlo Park
2022-11-15,Amazon,10000,Retail,Seattle
2023-01-20,Google,12000,Technology,Mountain View
`

const testHiringCSV = `date,company,hires,industry,location
2022-11-05,Meta,500,Technology,Menlo Park
2023-02-10,TikTok,3000,Technology,Los Angeles
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServices builds the full service stack over a temp data
// directory seeded with a small fixture dataset.
func newTestServices(t *testing.T) (*services.DataService, *services.InsightsService, *services.HealthService) {
	t.Helper()

	paths := config.NewPaths(t.TempDir(), config.Default().Paths)
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.LayoffsCSV, []byte(testLayoffsCSV), 0644))
	require.NoError(t, os.WriteFile(paths.HiringCSV, []byte(testHiringCSV), 0644))

	data := services.NewDataService(config.Default(), paths, testLogger())
	ins := services.NewInsightsService(data, paths, testLogger())
	health := services.NewHealthService(paths, data, testLogger())
	return data, ins, health
}

func newDataServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, _, _ := newTestServices(t)
	handler := NewDataHandler(data, testLogger(), apierrors.NewErrorHandler(testLogger(), false))
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestGetSummary(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/summary")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(33000), data["total_layoffs"])
	assert.Equal(t, float64(3500), data["total_hires"])
	assert.Equal(t, float64(4), data["active_companies"])
}

func TestGetSummaryWithFilter(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/summary?years=2022")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(21000), data["total_layoffs"])
}

func TestFilterValidation(t *testing.T) {
	server := newDataServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"month out of range", "?months=13"},
		{"non-numeric year", "?years=twenty"},
		{"non-numeric month", "?months=1,x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + "/summary" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/problem+json")
		})
	}
}

func TestGetTimeline(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/timeline")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])
}

func TestGetQuarterly(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/quarterly")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	points := body["data"].([]interface{})
	first := points[0].(map[string]interface{})
	assert.Equal(t, "Q4", first["quarter"])
	assert.Equal(t, float64(21000), first["layoffs"])
}

func TestGetOptions(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/options")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	companies := data["companies"].([]interface{})
	assert.Len(t, companies, 4)
	assert.Equal(t, "Amazon", companies[0])
}

func TestGetCompanyChart(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/company/meta/chart")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Meta", body["company"])

	data := body["data"].(map[string]interface{})
	records := data["records"].([]interface{})
	require.Len(t, records, 1)
}

func TestGetCompanyChartNotFound(t *testing.T) {
	server := newDataServer(t)

	resp, err := http.Get(server.URL + "/company/Initech/chart")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/problem+json")

	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "/errors/data/company-not-found", problem["type"])
}

func TestGetTopCompanies(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/top-companies")

	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	layoffs := data["layoffs"].([]interface{})
	require.NotEmpty(t, layoffs)
	top := layoffs[0].(map[string]interface{})
	assert.Equal(t, "Google", top["company"])
}

func TestGetIndustryTrends(t *testing.T) {
	server := newDataServer(t)

	status, body := getJSON(t, server.URL+"/industries?industries=Technology")

	assert.Equal(t, http.StatusOK, status)
	trends := body["data"].([]interface{})
	for _, raw := range trends {
		trend := raw.(map[string]interface{})
		assert.Equal(t, "Technology", trend["industry"])
	}
}

func TestExportCSV(t *testing.T) {
	server := newDataServer(t)

	resp, err := http.Get(server.URL + "/export/csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 5, "header plus four fused records")
	assert.Contains(t, lines[0], "company")
	assert.Contains(t, lines[0], "net_change")
}

func TestExportExcel(t *testing.T) {
	server := newDataServer(t)

	resp, err := http.Get(server.URL + "/export/xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Fused Data")
	assert.Contains(t, sheets, "Summary")
}

func TestReload(t *testing.T) {
	server := newDataServer(t)

	resp, err := http.Post(server.URL+"/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["layoff_events"])
}

func TestDataNotFoundProblem(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), config.Default().Paths)
	require.NoError(t, paths.EnsureDirectories())
	data := services.NewDataService(config.Default(), paths, testLogger())

	handler := NewDataHandler(data, testLogger(), apierrors.NewErrorHandler(testLogger(), false))
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "/errors/data/not-found", problem["type"])
}
