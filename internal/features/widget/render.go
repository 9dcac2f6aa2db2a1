package widget

import (
	"fmt"
	"math"
	"sort"
)

const NoDataMessage = "No data available"

// Output is the framework-neutral visual description handed to the front-end chart layer.
type Output struct {
	Kind        string             `json:"kind"` // chart, stat, table, ring, leaderboard, empty
	Chart       string             `json:"chart,omitempty"`
	Message     string             `json:"message,omitempty"`
	Series      *Series            `json:"series,omitempty"`
	Metric      *Metric            `json:"metric,omitempty"`
	Display     string             `json:"display,omitempty"`
	Table       *Table             `json:"table,omitempty"`
	TotalRows   int                `json:"total_rows,omitempty"`
	Progress    float64            `json:"progress,omitempty"`
	Slices      []Slice            `json:"slices,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
	Options     map[string]any     `json:"options,omitempty"`
}

type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

type LeaderboardEntry struct {
	Rank  int     `json:"rank"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RenderFunc must never panic on absent or malformed data; it returns Empty instead.
type RenderFunc func(data any, s Settings) Output

var renderers = map[Type]RenderFunc{
	TypeStatCard:     renderStatCard,
	TypeLineChart:    renderLine,
	TypeBarChart:     renderBar,
	TypePieChart:     renderPie,
	TypeAreaChart:    renderArea,
	TypeTable:        renderTable,
	TypeProgressRing: renderProgressRing,
	TypeLeaderboard:  renderLeaderboard,
}

// Empty is the explicit "no data" output.
func Empty() Output {
	return Output{Kind: "empty", Message: NoDataMessage}
}

// Render maps data + config to the visual output for t.
func Render(t Type, data any, cfg Config) Output {
	fn, ok := renderers[t]
	if !ok {
		return Output{Kind: "empty", Message: fmt.Sprintf("Unsupported widget type %q", t)}
	}
	return fn(data, Decode(t, cfg))
}

func renderStatCard(data any, s Settings) Output {
	m, ok := AsMetric(data)
	if !ok {
		return Empty()
	}
	set := s.(StatCardSettings)
	if !set.ShowTrend {
		m.Change = nil
	}
	return Output{
		Kind:    "stat",
		Metric:  &m,
		Display: formatValue(m.Value, set.Format),
		Options: map[string]any{"format": set.Format, "showTrend": set.ShowTrend},
	}
}

func renderLine(data any, s Settings) Output {
	series, ok := AsSeries(data)
	if !ok {
		return Empty()
	}
	set := s.(LineChartSettings)
	return Output{
		Kind:    "chart",
		Chart:   "line",
		Series:  &series,
		Options: map[string]any{"smooth": set.Smooth, "showPoints": set.ShowPoints, "showLegend": set.ShowLegend},
	}
}

func renderArea(data any, s Settings) Output {
	series, ok := AsSeries(data)
	if !ok {
		return Empty()
	}
	set := s.(AreaChartSettings)
	return Output{
		Kind:    "chart",
		Chart:   "area",
		Series:  &series,
		Options: map[string]any{"stacked": set.Stacked, "showLegend": set.ShowLegend},
	}
}

func renderBar(data any, s Settings) Output {
	series, ok := AsSeries(data)
	if !ok {
		return Empty()
	}
	set := s.(BarChartSettings)
	return Output{
		Kind:    "chart",
		Chart:   "bar",
		Series:  &series,
		Options: map[string]any{"stacked": set.Stacked, "orientation": set.Orientation, "showLegend": set.ShowLegend},
	}
}

func renderPie(data any, s Settings) Output {
	series, ok := AsSeries(data)
	if !ok || len(series.Datasets) == 0 {
		return Empty()
	}
	set := s.(PieChartSettings)

	values := series.Datasets[0].Values
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return Empty()
	}

	slices := make([]Slice, 0, len(values))
	for i, v := range values {
		if i >= len(series.Labels) || v <= 0 {
			continue
		}
		slices = append(slices, Slice{Label: series.Labels[i], Value: v, Percent: round2(v / total * 100)})
	}
	return Output{
		Kind:    "chart",
		Chart:   "pie",
		Slices:  slices,
		Options: map[string]any{"donut": set.Donut, "showLabels": set.ShowLabels},
	}
}

func renderTable(data any, s Settings) Output {
	table, ok := AsTable(data)
	if !ok {
		return Empty()
	}
	set := s.(TableSettings)
	total := len(table.Rows)
	if len(table.Rows) > set.PageSize {
		table.Rows = table.Rows[:set.PageSize]
	}
	return Output{
		Kind:      "table",
		Table:     &table,
		TotalRows: total,
		Options:   map[string]any{"pageSize": set.PageSize, "sortable": set.Sortable},
	}
}

func renderProgressRing(data any, s Settings) Output {
	m, ok := AsMetric(data)
	if !ok {
		return Empty()
	}
	set := s.(ProgressRingSettings)
	progress := 0.0
	if set.Target > 0 {
		progress = math.Max(0, math.Min(1, m.Value/set.Target))
	}
	return Output{
		Kind:     "ring",
		Metric:   &m,
		Progress: round2(progress),
		Display:  formatValue(m.Value, "percent"),
		Options:  map[string]any{"target": set.Target},
	}
}

func renderLeaderboard(data any, s Settings) Output {
	set := s.(LeaderboardSettings)

	var entries []LeaderboardEntry
	if series, ok := AsSeries(data); ok && len(series.Datasets) > 0 {
		for i, v := range series.Datasets[0].Values {
			if i < len(series.Labels) {
				entries = append(entries, LeaderboardEntry{Label: series.Labels[i], Value: v})
			}
		}
	} else if table, ok := AsTable(data); ok && len(table.Columns) >= 2 {
		labelCol, valueCol := table.Columns[0], table.Columns[1]
		for _, row := range table.Rows {
			v, _ := Config(row).number(valueCol)
			entries = append(entries, LeaderboardEntry{Label: fmt.Sprint(row[labelCol]), Value: v})
		}
	}
	if len(entries) == 0 {
		return Empty()
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	if len(entries) > set.Limit {
		entries = entries[:set.Limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return Output{Kind: "leaderboard", Leaderboard: entries, Options: map[string]any{"limit": set.Limit}}
}

func formatValue(v float64, format string) string {
	switch format {
	case "percent":
		return fmt.Sprintf("%.1f%%", v)
	case "duration":
		d := int(v)
		return fmt.Sprintf("%dm %02ds", d/60, d%60)
	default:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func columnsOf(row map[string]any) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
