package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"techpulse/internal/config"
	"techpulse/internal/dataprocessing"
	"techpulse/internal/exporter"
	"techpulse/internal/fusion"
	"techpulse/internal/infrastructure"
	"techpulse/internal/insights"
	"techpulse/pkg/contracts/domain"
)

// processor fuses the layoff and hiring sources into the unified
// dataset and writes the derived reports: fused CSV, industry trends
// CSV and the dated insights report.
func main() {
	layoffsPath := flag.String("layoffs", "", "layoffs CSV file (defaults to data/layoffs.csv relative to executable)")
	hiringPath := flag.String("hiring", "", "hiring CSV file (defaults to data/hiring.csv relative to executable)")
	outDir := flag.String("out", "", "output directory for reports (defaults to data/reports relative to executable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		slog.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}

	if *layoffsPath == "" {
		*layoffsPath = paths.LayoffsCSV
	}
	if *hiringPath == "" {
		*hiringPath = paths.HiringCSV
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("starting employment data processing",
		slog.String("layoffs", *layoffsPath),
		slog.String("hiring", *hiringPath),
		slog.String("output_dir", *outDir))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	start := time.Now()

	layoffs, err := dataprocessing.ParseCSV(*layoffsPath, domain.EventKindLayoff)
	if err != nil {
		logger.Error("failed to parse layoffs source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	hires, err := dataprocessing.ParseCSV(*hiringPath, domain.EventKindHire)
	if err != nil {
		logger.Error("failed to parse hiring source", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sources parsed",
		slog.Int("layoff_events", len(layoffs)),
		slog.Int("hiring_events", len(hires)))

	fused := fusion.Fuse(layoffs, hires)
	trends := fusion.IndustryTrends(layoffs, hires)

	writer := exporter.NewCSVWriter(paths)
	fusedPath := filepath.Join(*outDir, "fused_employment.csv")
	trendsPath := filepath.Join(*outDir, "industry_trends.csv")
	if err := writer.WriteFusedCSV(fused, fusedPath); err != nil {
		logger.Error("failed to write fused dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := writer.WriteIndustryTrendsCSV(trends, trendsPath); err != nil {
		logger.Error("failed to write industry trends", slog.String("error", err.Error()))
		os.Exit(1)
	}

	report := insights.GenerateReport(layoffs, hires, fused)
	reportPath, err := insights.SaveReport(report, *outDir)
	if err != nil {
		logger.Error("failed to save insights report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("processing complete",
		slog.Int("fused_records", len(fused)),
		slog.Int("industry_trends", len(trends)),
		slog.Int("insights", len(report.Insights)),
		slog.String("market_health", report.Health.Status),
		slog.String("report", reportPath),
		slog.Duration("duration", time.Since(start)))
}
