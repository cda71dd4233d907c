package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techpulse/internal/config"
	"techpulse/pkg/contracts"
)

type staticClientCounter int

func (c staticClientCounter) ClientCount() int { return int(c) }

func TestLiveness(t *testing.T) {
	data, paths := newTestDataService(t)
	svc := NewHealthService(paths, data, testLogger())

	status := svc.Liveness()

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.NotEmpty(t, status.Runtime.GoVersion)
	assert.Nil(t, status.Services)
}

func TestReadinessHealthy(t *testing.T) {
	data, paths := newTestDataService(t)
	svc := NewHealthService(paths, data, testLogger()).
		WithClientCounter(staticClientCounter(3))

	status := svc.Readiness(context.Background())

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Services["layoffs_source"].Status)
	assert.Equal(t, StatusHealthy, status.Services["dataset"].Status)
	assert.Equal(t, "3 connected clients", status.Services["websocket"].Message)
}

func TestReadinessDegradedWhenSourceMissing(t *testing.T) {
	data, paths := newTestDataService(t)
	require.NoError(t, os.Remove(paths.HiringCSV))
	svc := NewHealthService(paths, data, testLogger())

	status := svc.Readiness(context.Background())

	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, StatusDegraded, status.Services["hiring_source"].Status)
	assert.Equal(t, StatusHealthy, status.Services["layoffs_source"].Status)
}

func TestReadinessUnhealthyWhenDataDirMissing(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), config.Default().Paths)
	data := NewDataService(config.Default(), paths, testLogger())
	svc := NewHealthService(paths, data, testLogger())

	status := svc.Readiness(context.Background())

	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, StatusUnhealthy, status.Services["data_directory"].Status)
}
