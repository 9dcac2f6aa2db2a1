package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/database"
	"go-lms/internal/features/widget"
	"go-lms/internal/metrics"

	"go.uber.org/zap"
)

// SQLProvider answers widget data requests from the analytics warehouse.
type SQLProvider struct {
	db      *sql.DB
	dialect dialect
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewSQLProvider(wh *database.Warehouse, m *metrics.Metrics, logger *zap.Logger) *SQLProvider {
	return &SQLProvider{
		db:      wh.DB,
		dialect: dialect(wh.Dialect),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *SQLProvider) FetchWidgetData(ctx context.Context, req Request) (result WidgetData, err error) {
	started := time.Now()
	defer func() { p.metrics.ObserveFetch(string(req.Source), started, err) }()

	q, ok := sources[req.Source]
	if !ok {
		return WidgetData{}, errs.Invalid(req.WidgetID, "data_source", "unknown data source %q", req.Source)
	}

	now := p.now()
	var since any
	if from := req.TimeRange.Window(now); !from.IsZero() {
		since = from
	}
	query, args := q.build(p.dialect, since, req.TenantID)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		p.logger.Warn("widget query failed",
			zap.String("widget_id", req.WidgetID),
			zap.String("data_source", string(req.Source)),
			zap.Error(err))
		return WidgetData{}, errs.WrapApi(err, "query %s", req.Source)
	}
	defer rows.Close()

	var data any
	if q.table {
		data, err = scanTable(rows)
	} else {
		var series widget.Series
		series, err = scanSeries(rows, q.datasets)
		data = q.shape(req.Type, series)
	}
	if err != nil {
		return WidgetData{}, errs.WrapApi(err, "read %s", req.Source)
	}

	return WidgetData{Data: data, GeneratedAt: now}, nil
}

// scanSeries reads (label, v1, v2, ...) rows.
func scanSeries(rows *sql.Rows, datasets []string) (widget.Series, error) {
	series := widget.Series{Labels: []string{}, Datasets: make([]widget.Dataset, len(datasets))}
	for i, name := range datasets {
		series.Datasets[i] = widget.Dataset{Label: name, Values: []float64{}}
	}

	dest := make([]any, len(datasets)+1)
	for rows.Next() {
		for i := range dest {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return widget.Series{}, err
		}
		series.Labels = append(series.Labels, label(*dest[0].(*any)))
		for i := range datasets {
			series.Datasets[i].Values = append(series.Datasets[i].Values, number(*dest[i+1].(*any)))
		}
	}
	return series, rows.Err()
}

func scanTable(rows *sql.Rows) (widget.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return widget.Table{}, err
	}
	table := widget.Table{Columns: cols, Rows: []map[string]any{}}

	for rows.Next() {
		dest := make([]any, len(cols))
		for i := range dest {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return widget.Table{}, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			v := *dest[i].(*any)
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

func label(v any) string {
	switch t := v.(type) {
	case nil:
		return "unknown"
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// number accepts whatever numeric representation the driver produced.
func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case int:
		return float64(t)
	case uint64:
		return float64(t)
	case uint32:
		return float64(t)
	case uint8:
		return float64(t)
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
