package widget

import (
	"encoding/json"
)

// Series is the shape of time/category data consumed by chart renderers.
type Series struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Metric is a single figure with an optional change versus the previous period.
type Metric struct {
	Value  float64  `json:"value"`
	Label  string   `json:"label,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	Change *float64 `json:"change,omitempty"`
}

// Table is row-oriented data.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func (s Series) empty() bool {
	if len(s.Labels) == 0 {
		return true
	}
	for _, d := range s.Datasets {
		if len(d.Values) > 0 {
			return false
		}
	}
	return true
}

// coerce accepts typed values or their JSON-decoded generic form (data read back from a cache).
func coerce[T any](data any) (T, bool) {
	var zero T
	switch v := data.(type) {
	case nil:
		return zero, false
	case T:
		return v, true
	case *T:
		if v == nil {
			return zero, false
		}
		return *v, true
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}

// AsSeries extracts chart data.
func AsSeries(data any) (Series, bool) {
	s, ok := coerce[Series](data)
	if !ok || s.empty() {
		return Series{}, false
	}
	return s, true
}

// AsMetric extracts a single figure. Generic data must carry a "value" key.
func AsMetric(data any) (Metric, bool) {
	switch v := data.(type) {
	case Metric:
		return v, true
	case *Metric:
		if v == nil {
			return Metric{}, false
		}
		return *v, true
	}
	generic, ok := coerce[map[string]any](data)
	if !ok {
		return Metric{}, false
	}
	if _, has := generic["value"]; !has {
		return Metric{}, false
	}
	return coerce[Metric](generic)
}

// AsTable extracts tabular data.
func AsTable(data any) (Table, bool) {
	t, ok := coerce[Table](data)
	if !ok || len(t.Rows) == 0 {
		return Table{}, false
	}
	if len(t.Columns) == 0 {
		t.Columns = columnsOf(t.Rows[0])
	}
	return t, true
}
