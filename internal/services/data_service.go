package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"techpulse/internal/config"
	"techpulse/internal/dataprocessing"
	"techpulse/internal/fusion"
	"techpulse/internal/infrastructure"
	"techpulse/pkg/contracts/domain"
)

// Broadcaster notifies connected dashboard clients about dataset changes
type Broadcaster interface {
	BroadcastRefresh(source string, components []string)
}

// Dataset is one loaded snapshot of both sources and everything derived
// from them.
type Dataset struct {
	Layoffs []domain.EmploymentEvent
	Hires   []domain.EmploymentEvent
	Fused   []domain.FusedRecord
	Trends  []domain.IndustryTrend
	Stats   domain.SummaryStats

	LoadedAt time.Time
}

// DataService loads the employment sources, fuses them and answers all
// dataset queries. Snapshots are cached in memory and invalidated when
// a source file's mtime changes.
type DataService struct {
	config *config.Config
	paths  *config.Paths
	logger *slog.Logger

	metrics     *infrastructure.BusinessMetrics
	broadcaster Broadcaster

	mu          sync.RWMutex
	cached      *Dataset
	layoffsMod  time.Time
	hiringMod   time.Time
	layoffsPath string
	hiringPath  string
}

// NewDataService creates a new data service
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "data_service"))

	logger.Info("data service initialized",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir))

	return &DataService{
		config: cfg,
		paths:  paths,
		logger: logger,
	}
}

// WithMetrics attaches dataset load metrics recording
func (ds *DataService) WithMetrics(metrics *infrastructure.BusinessMetrics) *DataService {
	ds.metrics = metrics
	return ds
}

// WithBroadcaster attaches a refresh broadcaster for reload notifications
func (ds *DataService) WithBroadcaster(b Broadcaster) *DataService {
	ds.broadcaster = b
	return ds
}

// Dataset returns the current snapshot, reloading from disk when a
// source file changed since the last load.
func (ds *DataService) Dataset(ctx context.Context) (*Dataset, error) {
	layoffsPath, err := ds.findSource(ds.paths.LayoffsCSV)
	if err != nil {
		return nil, fmt.Errorf("%w: layoffs source in %s", ErrSourceNotFound, ds.paths.DataDir)
	}
	hiringPath, err := ds.findSource(ds.paths.HiringCSV)
	if err != nil {
		return nil, fmt.Errorf("%w: hiring source in %s", ErrSourceNotFound, ds.paths.DataDir)
	}

	layoffsMod, err := mtime(layoffsPath)
	if err != nil {
		return nil, err
	}
	hiringMod, err := mtime(hiringPath)
	if err != nil {
		return nil, err
	}

	ds.mu.RLock()
	if ds.cached != nil &&
		ds.layoffsPath == layoffsPath && ds.hiringPath == hiringPath &&
		ds.layoffsMod.Equal(layoffsMod) && ds.hiringMod.Equal(hiringMod) {
		cached := ds.cached
		ds.mu.RUnlock()
		return cached, nil
	}
	firstLoad := ds.cached == nil
	ds.mu.RUnlock()

	dataset, err := ds.load(ctx, layoffsPath, hiringPath)
	if err != nil {
		return nil, err
	}

	ds.mu.Lock()
	ds.cached = dataset
	ds.layoffsPath = layoffsPath
	ds.hiringPath = hiringPath
	ds.layoffsMod = layoffsMod
	ds.hiringMod = hiringMod
	ds.mu.Unlock()

	if !firstLoad && ds.broadcaster != nil {
		ds.broadcaster.BroadcastRefresh("data_service",
			[]string{"summary", "timeline", "companies", "insights"})
	}

	return dataset, nil
}

// Reload drops the cached snapshot and loads fresh from disk
func (ds *DataService) Reload(ctx context.Context) (*Dataset, error) {
	ds.mu.Lock()
	ds.cached = nil
	ds.mu.Unlock()
	return ds.Dataset(ctx)
}

// load reads both sources concurrently and derives the fused views
func (ds *DataService) load(ctx context.Context, layoffsPath, hiringPath string) (*Dataset, error) {
	start := time.Now()

	var layoffs, hires []domain.EmploymentEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		layoffs, err = loadSource(gctx, layoffsPath, domain.EventKindLayoff)
		return err
	})
	g.Go(func() error {
		var err error
		hires, err = loadSource(gctx, hiringPath, domain.EventKindHire)
		return err
	})

	err := g.Wait()
	infrastructure.RecordDatasetLoad(ctx, ds.metrics, len(layoffs)+len(hires), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	dataset := &Dataset{
		Layoffs:  layoffs,
		Hires:    hires,
		Fused:    fusion.Fuse(layoffs, hires),
		Trends:   fusion.IndustryTrends(layoffs, hires),
		Stats:    fusion.Summarize(layoffs, hires),
		LoadedAt: time.Now(),
	}

	ds.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("layoff_events", len(layoffs)),
		slog.Int("hiring_events", len(hires)),
		slog.Int("fused_records", len(dataset.Fused)),
		slog.Duration("duration", time.Since(start)))

	return dataset, nil
}

// loadSource parses one source file, honoring context cancellation
func loadSource(ctx context.Context, path string, kind domain.EventKind) ([]domain.EmploymentEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return dataprocessing.ParseWorkbook(path, kind)
	}
	return dataprocessing.ParseCSV(path, kind)
}

// findSource returns the configured CSV path if it exists, otherwise
// the XLSX sibling with the same stem.
func (ds *DataService) findSource(csvPath string) (string, error) {
	if config.FileExists(csvPath) {
		return csvPath, nil
	}
	xlsxPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
	if config.FileExists(xlsxPath) {
		return xlsxPath, nil
	}
	return "", ErrSourceNotFound
}

func mtime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// Summary returns the headline statistics for the filtered dataset
func (ds *DataService) Summary(ctx context.Context, f dataprocessing.Filter) (domain.SummaryStats, error) {
	dataset, err := ds.Dataset(ctx)
	if err != nil {
		return domain.SummaryStats{}, err
	}
	if f.IsZero() {
		return dataset.Stats, nil
	}
	return fusion.Summarize(f.Apply(dataset.Layoffs), f.Apply(dataset.Hires)), nil
}

// Timeline returns the monthly layoffs/hires series for the filtered dataset
func (ds *DataService) Timeline(ctx context.Context, f dataprocessing.Filter) ([]domain.MonthlyPoint, error) {
	stats, err := ds.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.MonthlySeries, nil
}

// QuarterlyPoint aggregates one calendar quarter
type QuarterlyPoint struct {
	Year      int    `json:"year"`
	Quarter   string `json:"quarter"`
	Layoffs   int    `json:"layoffs"`
	Hires     int    `json:"hires"`
	NetChange int    `json:"net_change"`
}

// Quarterly rolls the monthly series up to calendar quarters
func (ds *DataService) Quarterly(ctx context.Context, f dataprocessing.Filter) ([]QuarterlyPoint, error) {
	series, err := ds.Timeline(ctx, f)
	if err != nil {
		return nil, err
	}

	type key struct {
		year    int
		quarter int
	}
	totals := make(map[key]*QuarterlyPoint)
	for _, p := range series {
		k := key{year: p.Year, quarter: (p.Month-1)/3 + 1}
		q, ok := totals[k]
		if !ok {
			q = &QuarterlyPoint{Year: k.year, Quarter: fmt.Sprintf("Q%d", k.quarter)}
			totals[k] = q
		}
		q.Layoffs += p.Layoffs
		q.Hires += p.Hires
	}

	points := make([]QuarterlyPoint, 0, len(totals))
	for _, q := range totals {
		q.NetChange = q.Hires - q.Layoffs
		points = append(points, *q)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Quarter < points[j].Quarter
	})
	return points, nil
}

// MonthPattern is the all-years activity total for one calendar month
type MonthPattern struct {
	Month   int    `json:"month"`
	Name    string `json:"name"`
	Layoffs int    `json:"layoffs"`
	Hires   int    `json:"hires"`
}

// MonthlyPattern aggregates activity by calendar month across years,
// exposing seasonal patterns.
func (ds *DataService) MonthlyPattern(ctx context.Context, f dataprocessing.Filter) ([]MonthPattern, error) {
	series, err := ds.Timeline(ctx, f)
	if err != nil {
		return nil, err
	}

	patterns := make([]MonthPattern, 12)
	for i := range patterns {
		patterns[i].Month = i + 1
		patterns[i].Name = time.Month(i + 1).String()
	}
	for _, p := range series {
		patterns[p.Month-1].Layoffs += p.Layoffs
		patterns[p.Month-1].Hires += p.Hires
	}
	return patterns, nil
}

// HeatmapCell is one year-month cell of the layoff intensity heatmap
type HeatmapCell struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Layoffs int `json:"layoffs"`
}

// Heatmap returns layoff totals per year-month cell
func (ds *DataService) Heatmap(ctx context.Context, f dataprocessing.Filter) ([]HeatmapCell, error) {
	series, err := ds.Timeline(ctx, f)
	if err != nil {
		return nil, err
	}

	cells := make([]HeatmapCell, 0, len(series))
	for _, p := range series {
		cells = append(cells, HeatmapCell{Year: p.Year, Month: p.Month, Layoffs: p.Layoffs})
	}
	return cells, nil
}

// FilterOptions lists the values available for the dashboard filter controls
type FilterOptions struct {
	Companies  []string `json:"companies"`
	Industries []string `json:"industries"`
	Years      []int    `json:"years"`
	Months     []int    `json:"months"`
}

// Options returns the distinct companies, industries and years present
// in the unfiltered dataset.
func (ds *DataService) Options(ctx context.Context) (FilterOptions, error) {
	dataset, err := ds.Dataset(ctx)
	if err != nil {
		return FilterOptions{}, err
	}

	companySet := make(map[string]struct{})
	industrySet := make(map[string]struct{})
	yearSet := make(map[int]struct{})
	collect := func(events []domain.EmploymentEvent) {
		for _, e := range events {
			companySet[e.Company] = struct{}{}
			if e.Industry != "" {
				industrySet[e.Industry] = struct{}{}
			}
			yearSet[e.Year()] = struct{}{}
		}
	}
	collect(dataset.Layoffs)
	collect(dataset.Hires)

	options := FilterOptions{Months: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
	for c := range companySet {
		options.Companies = append(options.Companies, c)
	}
	for i := range industrySet {
		options.Industries = append(options.Industries, i)
	}
	for y := range yearSet {
		options.Years = append(options.Years, y)
	}
	sort.Strings(options.Companies)
	sort.Strings(options.Industries)
	sort.Ints(options.Years)
	return options, nil
}

// Companies returns the sorted distinct company names
func (ds *DataService) Companies(ctx context.Context) ([]string, error) {
	options, err := ds.Options(ctx)
	if err != nil {
		return nil, err
	}
	return options.Companies, nil
}

// IndustryTrends returns the yearly per-industry aggregates for the
// filtered dataset.
func (ds *DataService) IndustryTrends(ctx context.Context, f dataprocessing.Filter) ([]domain.IndustryTrend, error) {
	dataset, err := ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	if f.IsZero() {
		return dataset.Trends, nil
	}
	return fusion.IndustryTrends(f.Apply(dataset.Layoffs), f.Apply(dataset.Hires)), nil
}

// CompanyChart is the per-company monthly history used by the drilldown chart
type CompanyChart struct {
	Company  string               `json:"company"`
	Industry string               `json:"industry"`
	Location string               `json:"location"`
	Records  []domain.FusedRecord `json:"records"`
}

// CompanyChart returns the fused monthly history for one company.
// Matching is case-insensitive. Returns ErrCompanyNotFound when the
// company appears in neither source.
func (ds *DataService) CompanyChart(ctx context.Context, company string) (*CompanyChart, error) {
	dataset, err := ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	var records []domain.FusedRecord
	for _, r := range dataset.Fused {
		if strings.EqualFold(r.Company, company) {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, company)
	}

	chart := &CompanyChart{
		Company: records[0].Company,
		Records: records,
	}
	for _, r := range records {
		if chart.Industry == "" {
			chart.Industry = r.Industry
		}
		if chart.Location == "" {
			chart.Location = r.Location
		}
	}
	return chart, nil
}

// TopCompanies returns the top layoff and hiring company rankings for
// the filtered dataset.
func (ds *DataService) TopCompanies(ctx context.Context, f dataprocessing.Filter) (layoffs, hires []domain.CompanySummary, err error) {
	stats, err := ds.Summary(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return stats.TopLayoffCompanies, stats.TopHiringCompanies, nil
}

// Fused returns the filtered fused dataset, used by the export endpoints
func (ds *DataService) Fused(ctx context.Context, f dataprocessing.Filter) ([]domain.FusedRecord, error) {
	dataset, err := ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return f.ApplyFused(dataset.Fused), nil
}
