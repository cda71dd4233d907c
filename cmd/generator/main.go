package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"techpulse/internal/config"
	"techpulse/internal/generator"
	"techpulse/internal/infrastructure"
	"techpulse/pkg/contracts/domain"
)

// generator produces a synthetic layoffs/hiring dataset for demos and
// development environments without real source data.
func main() {
	outDir := flag.String("out", "", "output directory for CSV files (defaults to data relative to executable)")
	seed := flag.Int64("seed", 0, "random seed (0 uses the current time)")
	layoffEvents := flag.Int("layoffs", 500, "number of layoff events to generate")
	hiringEvents := flag.Int("hires", 600, "number of hiring events to generate")
	startYear := flag.Int("start", 2020, "first year of generated events")
	endYear := flag.Int("end", 2024, "last year of generated events")
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
	if *outDir == "" {
		*outDir = paths.DataDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	genCfg := generator.DefaultConfig()
	if *seed != 0 {
		genCfg.Seed = *seed
	}
	genCfg.LayoffEvents = *layoffEvents
	genCfg.HiringEvents = *hiringEvents
	genCfg.StartYear = *startYear
	genCfg.EndYear = *endYear

	logger.Info("generating sample employment data",
		slog.Int64("seed", genCfg.Seed),
		slog.Int("layoff_events", genCfg.LayoffEvents),
		slog.Int("hiring_events", genCfg.HiringEvents),
		slog.Int("start_year", genCfg.StartYear),
		slog.Int("end_year", genCfg.EndYear))

	layoffs, hires := generator.Generate(genCfg)

	layoffsPath := filepath.Join(*outDir, "layoffs.csv")
	hiringPath := filepath.Join(*outDir, "hiring.csv")

	if err := generator.WriteCSV(layoffs, domain.EventKindLayoff, layoffsPath); err != nil {
		logger.Error("failed to write layoffs CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := generator.WriteCSV(hires, domain.EventKindHire, hiringPath); err != nil {
		logger.Error("failed to write hiring CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sample data written",
		slog.String("layoffs", layoffsPath),
		slog.String("hiring", hiringPath))
}
