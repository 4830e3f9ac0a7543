package dashboard

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/selection"
)

// notAvailable is rendered for any attribute the region has no value for.
const notAvailable = "N/A"

var popupPrinter = message.NewPrinter(language.English)

// Popup is the formatted detail payload shown when a region is clicked.
// Values are pre-formatted strings so every consumer renders them the same
// way.
type Popup struct {
	RegionID    string `json:"region_id"`
	MetricLabel string `json:"metric_label"`
	MetricValue string `json:"metric_value"`
	Population  string `json:"population"`
	LandArea    string `json:"land_area"`
	Density     string `json:"density"`
}

// BuildPopup formats the popup for the given region attributes and metric.
func BuildPopup(attrs map[string]any, metricID string) (Popup, error) {
	d, ok := metric.ByID(metricID)
	if !ok {
		return Popup{}, &selection.UnknownMetricError{ID: metricID}
	}

	f := geojson.Feature{Properties: attrs}
	p := Popup{
		RegionID:    f.RegionID(),
		MetricLabel: d.Label,
		MetricValue: notAvailable,
		Population:  notAvailable,
		LandArea:    notAvailable,
		Density:     notAvailable,
	}

	if v, ok := f.Number(metricID); ok {
		p.MetricValue = fmt.Sprintf("%.2f", v)
	}
	if v, ok := f.Number(geojson.PopulationKey); ok {
		p.Population = popupPrinter.Sprintf("%d", int64(v))
	}
	if v, ok := f.Number(geojson.LandAreaKey); ok {
		p.LandArea = fmt.Sprintf("%.2f km²", v)
	}
	if v, ok := f.Number(geojson.DensityKey); ok {
		p.Density = popupPrinter.Sprintf("%d people/km²", int64(v))
	}
	return p, nil
}
