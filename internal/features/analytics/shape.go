package analytics

import (
	"math"

	"go-lms/internal/features/widget"
)

// shape converts the raw series of a source into what the widget type renders.
func (q sourceQuery) shape(t widget.Type, s widget.Series) any {
	switch t {
	case widget.TypeStatCard, widget.TypeProgressRing:
		return q.toMetric(s)
	case widget.TypeTable:
		return q.toTable(s)
	default:
		return s
	}
}

func (q sourceQuery) toMetric(s widget.Series) widget.Metric {
	m := widget.Metric{Label: q.metricName, Unit: q.unit}
	if q.metric >= len(s.Datasets) {
		return m
	}
	values := s.Datasets[q.metric].Values
	m.Value = round2(q.reduce.apply(values))

	// trend compares the later half of the window with the earlier half
	if q.reduce == reduceSum && len(values) >= 2 {
		half := len(values) / 2
		before := reduceSum.apply(values[:half])
		after := reduceSum.apply(values[len(values)-half:])
		if before > 0 {
			change := round2((after - before) / before * 100)
			m.Change = &change
		}
	}
	return m
}

func (q sourceQuery) toTable(s widget.Series) widget.Table {
	cols := append([]string{q.labelName}, q.datasets...)
	rows := make([]map[string]any, 0, len(s.Labels))
	for i, label := range s.Labels {
		row := map[string]any{q.labelName: label}
		for j, ds := range s.Datasets {
			if j < len(q.datasets) && i < len(ds.Values) {
				row[q.datasets[j]] = ds.Values[i]
			}
		}
		rows = append(rows, row)
	}
	return widget.Table{Columns: cols, Rows: rows}
}

func (r reduce) apply(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch r {
	case reduceLast:
		return values[len(values)-1]
	case reduceCount:
		return float64(len(values))
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	if r == reduceAvg {
		return sum / float64(len(values))
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
