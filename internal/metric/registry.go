// Package metric defines the fixed registry of normalized resilience metrics
// and the choropleth color classification over them.
package metric

// Attribute names of the normalized metrics carried by each feature.
// Each is a scalar in [0,1] where higher denotes better resilience, or null
// when the source data has no value for the region.
const (
	Resilience    = "Earthquake_Vulnerability_Index_Normalized"
	Age           = "Age_Normalized"
	BuildingAge   = "Building_Age_Normalized"
	UrgentCare    = "Urgent_Care_Accessibility_Normalized"
	Hospital      = "Hospital_Accessibility_Normalized"
	Housing       = "Housing_Suitability_Normalized"
	Communication = "Communication_Normalized"
)

// Descriptor is one registry entry. The registry is defined once at process
// start and never changes.
type Descriptor struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var registry = []Descriptor{
	{
		ID:          Resilience,
		Label:       "Earthquake Resilience Score",
		Description: "Overall earthquake resilience index combining all component scores.",
	},
	{
		ID:          Age,
		Label:       "Population Age Score",
		Description: "Resilience contribution of the area's age distribution.",
	},
	{
		ID:          BuildingAge,
		Label:       "Building Age Score",
		Description: "Resilience contribution of the building stock's construction era.",
	},
	{
		ID:          UrgentCare,
		Label:       "Urgent Care Accessibility Score",
		Description: "Travel-time accessibility to urgent care facilities.",
	},
	{
		ID:          Hospital,
		Label:       "Hospital Accessibility Score",
		Description: "Travel-time accessibility to hospitals.",
	},
	{
		ID:          Housing,
		Label:       "Housing Suitability Score",
		Description: "Suitability of housing conditions for post-event sheltering.",
	},
	{
		ID:          Communication,
		Label:       "Communication Score",
		Description: "Capacity to receive and act on emergency communication.",
	},
}

var byID = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(registry))
	for _, d := range registry {
		m[d.ID] = d
	}
	return m
}()

// Registry returns the metric descriptors in display order.
func Registry() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// ByID looks up a descriptor by its identifier.
func ByID(id string) (Descriptor, bool) {
	d, ok := byID[id]
	return d, ok
}

// DefaultID is the metric selected when the dashboard opens: the overall
// resilience index.
func DefaultID() string {
	return Resilience
}
