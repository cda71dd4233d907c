package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file system paths used by
// the application. Relative configured paths resolve against BaseDir.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string

	// Well-known source files inside DataDir
	LayoffsCSV string
	HiringCSV  string

	// Well-known generated files inside ReportsDir
	FusedCSV          string
	IndustryTrendsCSV string
}

// NewPaths builds the path set rooted at baseDir using the configured
// (possibly relative) directory names.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	dataDir := resolve(cfg.DataDir)
	reportsDir := resolve(cfg.ReportsDir)

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		ReportsDir: reportsDir,
		LogsDir:    resolve(cfg.LogsDir),

		LayoffsCSV: filepath.Join(dataDir, "layoffs.csv"),
		HiringCSV:  filepath.Join(dataDir, "hiring.csv"),

		FusedCSV:          filepath.Join(reportsDir, "fused_employment.csv"),
		IndustryTrendsCSV: filepath.Join(reportsDir, "industry_trends.csv"),
	}
}

// ResolvePaths builds the path set for the given configuration. When no
// base directory is configured, paths are rooted at the executable
// directory so the binary works regardless of working directory.
func ResolvePaths(cfg *Config) (*Paths, error) {
	baseDir := cfg.Paths.BaseDir
	if baseDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		baseDir = filepath.Dir(exe)
	}

	return NewPaths(baseDir, cfg.Paths), nil
}

// EnsureDirectories creates all required directories if missing
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether the path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
