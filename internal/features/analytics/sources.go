package analytics

import (
	"fmt"
	"strings"

	"go-lms/internal/features/widget"
)

// dialect holds the SQL differences between warehouse engines.
type dialect string

const (
	postgres   dialect = "postgres"
	mysql      dialect = "mysql"
	clickhouse dialect = "clickhouse"
)

func (d dialect) placeholder(n int) string {
	if d == postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d dialect) day(col string) string {
	switch d {
	case mysql:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
	case clickhouse:
		return fmt.Sprintf("toString(toDate(%s))", col)
	default:
		return fmt.Sprintf("to_char(date_trunc('day', %s), 'YYYY-MM-DD')", col)
	}
}

func (d dialect) hour(col string) string {
	switch d {
	case mysql:
		return fmt.Sprintf("HOUR(%s)", col)
	case clickhouse:
		return fmt.Sprintf("toHour(%s)", col)
	default:
		return fmt.Sprintf("EXTRACT(HOUR FROM %s)", col)
	}
}

type reduce int

const (
	reduceSum reduce = iota
	reduceAvg
	reduceLast
	reduceCount
)

// sourceQuery describes how one data source is read from the warehouse. Every query selects
// a label column followed by one numeric column per dataset, except table sources which
// return rows as they are.
type sourceQuery struct {
	sql        func(d dialect, where string) string
	timeCol    string
	tenantCol  string // empty: the source compares tenants and ignores the filter
	labelName  string
	datasets   []string
	table      bool
	metric     int // dataset used when a single figure is needed
	reduce     reduce
	metricName string
	unit       string
}

var sources = map[widget.DataSource]sourceQuery{
	widget.SourceUserGrowth: {
		sql: func(d dialect, where string) string {
			return fmt.Sprintf("SELECT %s AS label, COUNT(*) AS value FROM users%s GROUP BY label ORDER BY label", d.day("created_at"), where)
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "day", datasets: []string{"New users"},
		reduce: reduceSum, metricName: "New users",
	},
	widget.SourceActiveUsers: {
		sql: func(d dialect, where string) string {
			return fmt.Sprintf("SELECT %s AS label, COUNT(DISTINCT user_id) AS value FROM events%s GROUP BY label ORDER BY label", d.day("created_at"), where)
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "day", datasets: []string{"Active users"},
		reduce: reduceLast, metricName: "Active users",
	},
	widget.SourceEnrollmentStats: {
		sql: func(d dialect, where string) string {
			return fmt.Sprintf("SELECT %s AS label, COUNT(*) AS value FROM enrollments%s GROUP BY label ORDER BY label", d.day("enrolled_at"), where)
		},
		timeCol: "enrolled_at", tenantCol: "tenant_id",
		labelName: "day", datasets: []string{"Enrollments"},
		reduce: reduceSum, metricName: "Enrollments",
	},
	widget.SourceCompletionRates: {
		sql: func(d dialect, where string) string {
			return "SELECT 'completion' AS label, " +
				"100.0 * SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) / COUNT(*) AS value " +
				"FROM enrollments" + where + " HAVING COUNT(*) > 0"
		},
		timeCol: "enrolled_at", tenantCol: "tenant_id",
		labelName: "metric", datasets: []string{"Completion rate"},
		reduce: reduceAvg, metricName: "Completion rate", unit: "%",
	},
	widget.SourceLoginFrequency: {
		sql: func(d dialect, where string) string {
			return fmt.Sprintf("SELECT %s AS label, COUNT(*) AS value FROM events%s GROUP BY label ORDER BY label", d.day("created_at"), and(where, "event_type = 'login'"))
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "day", datasets: []string{"Logins"},
		reduce: reduceSum, metricName: "Logins",
	},
	widget.SourcePeakUsage: {
		sql: func(d dialect, where string) string {
			return fmt.Sprintf("SELECT %s AS label, COUNT(*) AS value FROM events%s GROUP BY label ORDER BY label", d.hour("created_at"), where)
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "hour", datasets: []string{"Events"},
		reduce: reduceSum, metricName: "Events",
	},
	widget.SourceTenantComparison: {
		sql: func(d dialect, where string) string {
			return "SELECT t.name AS label, COUNT(e.id) AS value FROM tenants t JOIN events e ON e.tenant_id = t.id" +
				where + " GROUP BY t.name ORDER BY value DESC"
		},
		timeCol:   "e.created_at",
		labelName: "tenant", datasets: []string{"Events"},
		reduce: reduceCount, metricName: "Tenants",
	},
	widget.SourceDeviceUsage: {
		sql: func(d dialect, where string) string {
			return "SELECT device AS label, COUNT(*) AS value FROM events" + where + " GROUP BY device ORDER BY value DESC"
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "device", datasets: []string{"Sessions"},
		reduce: reduceSum,
	},
	widget.SourceGeographicData: {
		sql: func(d dialect, where string) string {
			return "SELECT country AS label, COUNT(DISTINCT user_id) AS value FROM events" + where + " GROUP BY country ORDER BY value DESC"
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "country", datasets: []string{"Users"},
		reduce: reduceSum,
	},
	widget.SourceEventsByType: {
		sql: func(d dialect, where string) string {
			return "SELECT event_type AS label, COUNT(*) AS value FROM events" + where + " GROUP BY event_type ORDER BY value DESC"
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		labelName: "event", datasets: []string{"Events"},
		reduce: reduceSum,
	},
	widget.SourcePopularCourses: {
		sql: func(d dialect, where string) string {
			return "SELECT c.title AS label, COUNT(en.id) AS value FROM courses c JOIN enrollments en ON en.course_id = c.id" +
				where + " GROUP BY c.title ORDER BY value DESC LIMIT 50"
		},
		timeCol: "en.enrolled_at", tenantCol: "c.tenant_id",
		labelName: "course", datasets: []string{"Enrollments"},
		reduce: reduceSum,
	},
	widget.SourceCourseMetrics: {
		sql: func(d dialect, where string) string {
			return "SELECT c.title AS label, COUNT(en.id) AS enrollments, " +
				"SUM(CASE WHEN en.status = 'completed' THEN 1 ELSE 0 END) AS completed, " +
				"100.0 * SUM(CASE WHEN en.status = 'completed' THEN 1 ELSE 0 END) / COUNT(en.id) AS completion_rate " +
				"FROM courses c JOIN enrollments en ON en.course_id = c.id" + where +
				" GROUP BY c.title ORDER BY enrollments DESC LIMIT 50"
		},
		timeCol: "en.enrolled_at", tenantCol: "c.tenant_id",
		labelName: "course", datasets: []string{"Enrollments", "Completed", "Completion rate"},
		metric: 2, reduce: reduceAvg, metricName: "Avg. completion", unit: "%",
	},
	widget.SourceRecentActivity: {
		sql: func(d dialect, where string) string {
			return "SELECT user_id, event_type, created_at FROM events" + where + " ORDER BY created_at DESC LIMIT 100"
		},
		timeCol: "created_at", tenantCol: "tenant_id",
		table: true,
	},
}

func and(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}

// build renders the query with the time window and tenant filters of the request.
func (q sourceQuery) build(d dialect, since any, tenantID string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if since != nil {
		args = append(args, since)
		conds = append(conds, fmt.Sprintf("%s >= %s", q.timeCol, d.placeholder(len(args))))
	}
	if tenantID != "" && q.tenantCol != "" {
		args = append(args, tenantID)
		conds = append(conds, fmt.Sprintf("%s = %s", q.tenantCol, d.placeholder(len(args))))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	return q.sql(d, where), args
}
