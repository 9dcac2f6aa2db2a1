package widget

import "fmt"

// Descriptor is the static catalogue entry of a widget type.
type Descriptor struct {
	Type              Type                    `json:"type"`
	Label             string                  `json:"label"`
	DefaultWidth      int                     `json:"default_width"`
	DefaultHeight     int                     `json:"default_height"`
	CompatibleSources map[DataSource]struct{} `json:"-"`
	sources           []DataSource
}

// SourceList returns the compatible sources in declaration order.
func (d Descriptor) SourceList() []DataSource {
	out := make([]DataSource, len(d.sources))
	copy(out, d.sources)
	return out
}

var typeOrder = []Type{
	TypeStatCard, TypeLineChart, TypeBarChart, TypePieChart,
	TypeAreaChart, TypeTable, TypeProgressRing, TypeLeaderboard,
}

var catalog = map[Type]Descriptor{}

func register(t Type, label string, w, h int, sources ...DataSource) {
	set := make(map[DataSource]struct{}, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	catalog[t] = Descriptor{
		Type:              t,
		Label:             label,
		DefaultWidth:      w,
		DefaultHeight:     h,
		CompatibleSources: set,
		sources:           sources,
	}
}

func init() {
	register(TypeStatCard, "Stat Card", 3, 2,
		SourceActiveUsers, SourceUserGrowth, SourceEnrollmentStats, SourceCompletionRates, SourceCourseMetrics)
	register(TypeLineChart, "Line Chart", 6, 4,
		SourceUserGrowth, SourceEnrollmentStats, SourceLoginFrequency, SourceActiveUsers, SourcePeakUsage)
	register(TypeBarChart, "Bar Chart", 6, 4,
		SourceEnrollmentStats, SourceCourseMetrics, SourceEventsByType, SourcePopularCourses, SourceTenantComparison, SourcePeakUsage)
	register(TypePieChart, "Pie Chart", 4, 4,
		SourceDeviceUsage, SourceEventsByType, SourceGeographicData, SourceTenantComparison)
	register(TypeAreaChart, "Area Chart", 6, 4,
		SourceUserGrowth, SourceLoginFrequency, SourceActiveUsers, SourceEnrollmentStats)
	register(TypeTable, "Table", 6, 4,
		SourceRecentActivity, SourcePopularCourses, SourceCourseMetrics, SourceTenantComparison, SourceGeographicData)
	register(TypeProgressRing, "Progress Ring", 3, 3,
		SourceCompletionRates, SourceCourseMetrics)
	register(TypeLeaderboard, "Leaderboard", 4, 4,
		SourcePopularCourses, SourceTenantComparison, SourceCourseMetrics)
}

// Describe returns the catalogue entry for t. Callers must only pass known types.
func Describe(t Type) Descriptor {
	d, ok := catalog[t]
	if !ok {
		panic(fmt.Sprintf("widget: unknown type %q", t))
	}
	return d
}

// IsCompatible reports whether source is declared for t.
func IsCompatible(t Type, source DataSource) bool {
	d, ok := catalog[t]
	if !ok {
		return false
	}
	_, ok = d.CompatibleSources[source]
	return ok
}

// Types lists the catalogue in palette order.
func Types() []Descriptor {
	out := make([]Descriptor, 0, len(typeOrder))
	for _, t := range typeOrder {
		out = append(out, catalog[t])
	}
	return out
}
