package dashboard

import (
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

// chartMax is the fixed axis maximum. Every metric is pre-normalized, so
// charts scale against 1.0 rather than the data's own maximum.
const chartMax = 1.0

// seriesColor is the single-series fill used by both chart kinds.
const seriesColor = "#BD0026"

// ChartConfig is the renderer-facing chart description: one horizontal bar
// or radial polygon encoding per metric.
type ChartConfig struct {
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Labels      []string  `json:"labels"`
	Values      []float64 `json:"values"`
	Max         float64   `json:"max"`
	Color       string    `json:"color"`
	Placeholder bool      `json:"placeholder"`
}

// BuildChart produces a chart config from a derived series. A nil series
// means no region is selected yet and yields the placeholder state.
func BuildChart(series []selection.Point, kind selection.ChartKind, title string) ChartConfig {
	cfg := ChartConfig{
		Kind:  string(kind),
		Title: title,
		Max:   chartMax,
		Color: seriesColor,
	}
	if series == nil {
		cfg.Placeholder = true
		return cfg
	}

	cfg.Labels = make([]string, 0, len(series))
	cfg.Values = make([]float64, 0, len(series))
	for _, p := range series {
		cfg.Labels = append(cfg.Labels, p.Label)
		cfg.Values = append(cfg.Values, p.Value)
	}
	return cfg
}
