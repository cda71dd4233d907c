package services

import (
	"context"
	"fmt"
	"log/slog"

	"techpulse/internal/config"
	"techpulse/internal/dataprocessing"
	"techpulse/internal/fusion"
	"techpulse/internal/insights"
)

// InsightsService builds and persists insight reports over the dataset
type InsightsService struct {
	data   *DataService
	paths  *config.Paths
	logger *slog.Logger
}

// NewInsightsService creates a new insights service
func NewInsightsService(data *DataService, paths *config.Paths, logger *slog.Logger) *InsightsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightsService{
		data:   data,
		paths:  paths,
		logger: logger.With(slog.String("component", "insights_service")),
	}
}

// Report generates the full insights report for the filtered dataset
func (s *InsightsService) Report(ctx context.Context, f dataprocessing.Filter) (insights.Report, error) {
	dataset, err := s.data.Dataset(ctx)
	if err != nil {
		return insights.Report{}, err
	}

	layoffs, hires, fused := dataset.Layoffs, dataset.Hires, dataset.Fused
	if !f.IsZero() {
		layoffs = f.Apply(layoffs)
		hires = f.Apply(hires)
		fused = fusion.Fuse(layoffs, hires)
	}

	return insights.GenerateReport(layoffs, hires, fused), nil
}

// Save generates the unfiltered report and persists it to the reports
// directory, returning the file path.
func (s *InsightsService) Save(ctx context.Context) (string, error) {
	report, err := s.Report(ctx, dataprocessing.Filter{})
	if err != nil {
		return "", err
	}

	path, err := insights.SaveReport(report, s.paths.ReportsDir)
	if err != nil {
		return "", fmt.Errorf("saving insights report: %w", err)
	}

	s.logger.InfoContext(ctx, "insights report saved",
		slog.String("path", path),
		slog.Int("insight_count", len(report.Insights)))
	return path, nil
}

// Latest loads the most recent persisted report
func (s *InsightsService) Latest(ctx context.Context) (insights.Report, error) {
	report, err := insights.LoadLatest(s.paths.ReportsDir)
	if err != nil {
		return insights.Report{}, fmt.Errorf("%w: %v", ErrNoReportsFound, err)
	}
	return report, nil
}
