package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

func TestBuildChart(t *testing.T) {
	t.Parallel()

	series := []selection.Point{
		{Label: "Earthquake Resilience Score", Value: 0.85},
		{Label: "Hospital Accessibility Score", Value: 0},
	}

	cfg := BuildChart(series, selection.ChartRadar, "Dissemination Area 59153586")
	assert.Equal(t, "radar", cfg.Kind)
	assert.Equal(t, "Dissemination Area 59153586", cfg.Title)
	assert.False(t, cfg.Placeholder)
	assert.Equal(t, 1.0, cfg.Max)
	require.Equal(t, []string{"Earthquake Resilience Score", "Hospital Accessibility Score"}, cfg.Labels)
	assert.Equal(t, []float64{0.85, 0}, cfg.Values)
}

func TestBuildChart_Placeholder(t *testing.T) {
	t.Parallel()

	cfg := BuildChart(nil, selection.ChartBar, "")
	assert.True(t, cfg.Placeholder)
	assert.Empty(t, cfg.Labels)
	assert.Empty(t, cfg.Values)
	assert.Equal(t, "bar", cfg.Kind)
}
