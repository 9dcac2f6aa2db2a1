package widget

import "fmt"

type Type string
type DataSource string

const (
	TypeStatCard     Type = "stat_card"
	TypeLineChart    Type = "line_chart"
	TypeBarChart     Type = "bar_chart"
	TypePieChart     Type = "pie_chart"
	TypeAreaChart    Type = "area_chart"
	TypeTable        Type = "table"
	TypeProgressRing Type = "progress_ring"
	TypeLeaderboard  Type = "leaderboard"
)

const (
	SourceUserGrowth       DataSource = "user_growth"
	SourceEnrollmentStats  DataSource = "enrollment_stats"
	SourceCourseMetrics    DataSource = "course_metrics"
	SourceCompletionRates  DataSource = "completion_rates"
	SourceLoginFrequency   DataSource = "login_frequency"
	SourcePeakUsage        DataSource = "peak_usage"
	SourceTenantComparison DataSource = "tenant_comparison"
	SourceDeviceUsage      DataSource = "device_usage"
	SourceGeographicData   DataSource = "geographic_data"
	SourceEventsByType     DataSource = "events_by_type"
	SourcePopularCourses   DataSource = "popular_courses"
	SourceActiveUsers      DataSource = "active_users"
	SourceRecentActivity   DataSource = "recent_activity"
)

var allSources = []DataSource{
	SourceUserGrowth, SourceEnrollmentStats, SourceCourseMetrics, SourceCompletionRates,
	SourceLoginFrequency, SourcePeakUsage, SourceTenantComparison, SourceDeviceUsage,
	SourceGeographicData, SourceEventsByType, SourcePopularCourses, SourceActiveUsers,
	SourceRecentActivity,
}

// DataSources lists every known data source.
func DataSources() []DataSource {
	out := make([]DataSource, len(allSources))
	copy(out, allSources)
	return out
}

// ParseType validates a widget type coming from outside the process.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := catalog[t]; !ok {
		return "", fmt.Errorf("unknown widget type %q", s)
	}
	return t, nil
}

// ParseDataSource validates a data source coming from outside the process.
func ParseDataSource(s string) (DataSource, error) {
	for _, d := range allSources {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown data source %q", s)
}
