package dashboard

import (
	"go.uber.org/zap"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

// FeatureStyle is one overlay entry: a region and the fill its current
// metric value classifies into.
type FeatureStyle struct {
	RegionID string   `json:"region_id"`
	Class    int      `json:"class"`
	Color    string   `json:"color"`
	Value    *float64 `json:"value,omitempty"`
}

// BuildOverlay produces one style per feature for the given metric. The
// overlay is always rebuilt from scratch on a dataset or metric change;
// nothing is diffed. Features without properties are logged and skipped and
// never abort the build.
func BuildOverlay(ds *geojson.Dataset, metricID string) ([]FeatureStyle, error) {
	if _, ok := metric.ByID(metricID); !ok {
		return nil, &selection.UnknownMetricError{ID: metricID}
	}

	log := zap.L().With(zap.String("component", "dashboard.overlay"))

	styles := make([]FeatureStyle, 0, len(ds.Features))
	for i, f := range ds.Features {
		if f.Properties == nil {
			log.Warn("feature without properties skipped", zap.Int("index", i))
			continue
		}

		v, ok := f.Number(metricID)
		style := FeatureStyle{RegionID: f.RegionID()}
		if ok {
			value := v
			style.Value = &value
			style.Class = int(metric.Classify(v))
		} else {
			style.Class = int(metric.Classify(metric.Missing()))
		}
		style.Color = metric.ColorClass(style.Class).Color()
		styles = append(styles, style)
	}
	return styles, nil
}

// Legend is the legend payload keyed to the selected metric.
type Legend struct {
	Metric  string          `json:"metric"`
	Label   string          `json:"label"`
	Buckets []metric.Bucket `json:"buckets"`
}

// BuildLegend returns the legend for the given metric.
func BuildLegend(metricID string) (Legend, error) {
	d, ok := metric.ByID(metricID)
	if !ok {
		return Legend{}, &selection.UnknownMetricError{ID: metricID}
	}
	return Legend{
		Metric:  d.ID,
		Label:   d.Label,
		Buckets: metric.LegendBuckets(),
	}, nil
}
