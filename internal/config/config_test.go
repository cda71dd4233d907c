package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: true,
		},
		{
			name: "rate limit enabled with zero rps",
			mutate: func(c *Config) {
				c.Security.RateLimit.Enabled = true
				c.Security.RateLimit.RPS = 0
			},
			wantErr: true,
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base, Default().Paths)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "data", "layoffs.csv"), paths.LayoffsCSV)
	assert.Equal(t, filepath.Join(base, "data", "hiring.csv"), paths.HiringCSV)
	assert.Equal(t, filepath.Join(base, "data", "reports", "fused_employment.csv"), paths.FusedCSV)
}

func TestNewPathsAbsoluteOverride(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()

	cfg := Default().Paths
	cfg.DataDir = other

	paths := NewPaths(base, cfg)
	assert.Equal(t, other, paths.DataDir)
	assert.Equal(t, filepath.Join(other, "layoffs.csv"), paths.LayoffsCSV)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base, Default().Paths)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.ReportsDir, paths.LogsDir} {
		assert.DirExists(t, dir)
	}
}

func TestFileExists(t *testing.T) {
	base := t.TempDir()
	assert.False(t, FileExists(filepath.Join(base, "missing.csv")))
	assert.False(t, FileExists(base)) // directories do not count
}
