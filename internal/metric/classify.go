package metric

import (
	"fmt"
	"math"
)

// ColorClass is one of six ordered choropleth buckets.
type ColorClass int

// Classes in ascending order of the values they cover.
const (
	ClassNeutral  ColorClass = iota // at or below 0.20, or missing
	ClassLow                        // above 0.20
	ClassModerate                   // above 0.40
	ClassHigh                       // above 0.60
	ClassVeryHigh                   // above 0.80
	ClassMaximum                    // above 1.00
)

// classColors maps each class to its fill color. The neutral class renders
// white: a value at or below the lowest threshold is shown the same way as a
// region with no data at all. That conflation matches the published
// dashboard and is kept deliberately.
var classColors = [...]string{
	ClassNeutral:  "#FFFFFF",
	ClassLow:      "#FD8D3C",
	ClassModerate: "#FC4E2A",
	ClassHigh:     "#E31A1C",
	ClassVeryHigh: "#BD0026",
	ClassMaximum:  "#800026",
}

// Color returns the fill color for the class.
func (c ColorClass) Color() string {
	if c < ClassNeutral || c > ClassMaximum {
		return classColors[ClassNeutral]
	}
	return classColors[c]
}

// Missing is the sentinel for an absent or null metric value. It classifies
// into the neutral class because every comparison against it is false.
func Missing() float64 {
	return math.NaN()
}

// Classify maps a normalized value to its color class using strict
// comparisons against descending cutoffs. Values above 1 land in the topmost
// class; values at or below 0.20 (and the Missing sentinel) land in the
// neutral class.
func Classify(v float64) ColorClass {
	switch {
	case v > 1.0:
		return ClassMaximum
	case v > 0.80:
		return ClassVeryHigh
	case v > 0.60:
		return ClassHigh
	case v > 0.40:
		return ClassModerate
	case v > 0.20:
		return ClassLow
	default:
		return ClassNeutral
	}
}

// Bucket is one legend row: the inclusive lower boundary of a value range,
// its display label, and the fill color used for values in the range.
type Bucket struct {
	Lower float64 `json:"lower"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

// LegendBuckets returns the five legend rows keyed to the classifier's
// boundary values. The last bucket extends to 1.00.
func LegendBuckets() []Bucket {
	bounds := []float64{0, 0.20, 0.40, 0.60, 0.80}
	buckets := make([]Bucket, len(bounds))
	for i, lower := range bounds {
		upper := lower + 0.20
		buckets[i] = Bucket{
			Lower: lower,
			Label: fmt.Sprintf("%.2f – %.2f", lower, upper),
			Color: ColorClass(i).Color(),
		}
	}
	return buckets
}
