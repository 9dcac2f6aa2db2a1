package widget

// Config is the storage shape of widget settings: an open key/value map. It is converted
// to a typed Settings value right after load; keys a type does not read are carried
// along untouched.
type Config map[string]any

// Settings is the typed per-type view of a Config.
type Settings interface {
	WidgetType() Type
	// Apply writes the typed values back over cfg, leaving unrelated keys intact.
	Apply(cfg Config) Config
}

type StatCardSettings struct {
	Format    string // number, percent, duration
	ShowTrend bool
}

type LineChartSettings struct {
	Smooth     bool
	ShowPoints bool
	ShowLegend bool
}

type BarChartSettings struct {
	Stacked     bool
	Orientation string // vertical, horizontal
	ShowLegend  bool
}

type PieChartSettings struct {
	Donut      bool
	ShowLabels bool
}

type AreaChartSettings struct {
	Stacked    bool
	ShowLegend bool
}

type TableSettings struct {
	PageSize int
	Sortable bool
}

type ProgressRingSettings struct {
	Target float64 // percent, 0..100
}

type LeaderboardSettings struct {
	Limit int
}

func (StatCardSettings) WidgetType() Type     { return TypeStatCard }
func (LineChartSettings) WidgetType() Type    { return TypeLineChart }
func (BarChartSettings) WidgetType() Type     { return TypeBarChart }
func (PieChartSettings) WidgetType() Type     { return TypePieChart }
func (AreaChartSettings) WidgetType() Type    { return TypeAreaChart }
func (TableSettings) WidgetType() Type        { return TypeTable }
func (ProgressRingSettings) WidgetType() Type { return TypeProgressRing }
func (LeaderboardSettings) WidgetType() Type  { return TypeLeaderboard }

func (s StatCardSettings) Apply(cfg Config) Config {
	return cfg.with("format", s.Format).with("showTrend", s.ShowTrend)
}

func (s LineChartSettings) Apply(cfg Config) Config {
	return cfg.with("smooth", s.Smooth).with("showPoints", s.ShowPoints).with("showLegend", s.ShowLegend)
}

func (s BarChartSettings) Apply(cfg Config) Config {
	return cfg.with("stacked", s.Stacked).with("orientation", s.Orientation).with("showLegend", s.ShowLegend)
}

func (s PieChartSettings) Apply(cfg Config) Config {
	return cfg.with("donut", s.Donut).with("showLabels", s.ShowLabels)
}

func (s AreaChartSettings) Apply(cfg Config) Config {
	return cfg.with("stacked", s.Stacked).with("showLegend", s.ShowLegend)
}

func (s TableSettings) Apply(cfg Config) Config {
	return cfg.with("pageSize", s.PageSize).with("sortable", s.Sortable)
}

func (s ProgressRingSettings) Apply(cfg Config) Config {
	return cfg.with("target", s.Target)
}

func (s LeaderboardSettings) Apply(cfg Config) Config {
	return cfg.with("limit", s.Limit)
}

// Decode reads the keys t understands. Missing or mistyped keys fall back to defaults.
func Decode(t Type, cfg Config) Settings {
	switch t {
	case TypeStatCard:
		return StatCardSettings{
			Format:    cfg.oneOf("format", "number", "number", "percent", "duration"),
			ShowTrend: cfg.boolean("showTrend", true),
		}
	case TypeLineChart:
		return LineChartSettings{
			Smooth:     cfg.boolean("smooth", false),
			ShowPoints: cfg.boolean("showPoints", true),
			ShowLegend: cfg.boolean("showLegend", true),
		}
	case TypeBarChart:
		return BarChartSettings{
			Stacked:     cfg.boolean("stacked", false),
			Orientation: cfg.oneOf("orientation", "vertical", "vertical", "horizontal"),
			ShowLegend:  cfg.boolean("showLegend", true),
		}
	case TypePieChart:
		return PieChartSettings{
			Donut:      cfg.boolean("donut", false),
			ShowLabels: cfg.boolean("showLabels", true),
		}
	case TypeAreaChart:
		return AreaChartSettings{
			Stacked:    cfg.boolean("stacked", false),
			ShowLegend: cfg.boolean("showLegend", true),
		}
	case TypeTable:
		return TableSettings{
			PageSize: cfg.intRange("pageSize", 10, 1, 100),
			Sortable: cfg.boolean("sortable", true),
		}
	case TypeProgressRing:
		return ProgressRingSettings{Target: cfg.floatRange("target", 100, 0, 100)}
	case TypeLeaderboard:
		return LeaderboardSettings{Limit: cfg.intRange("limit", 10, 1, 50)}
	default:
		return nil
	}
}

// Clone copies the top level of the map.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c Config) with(key string, v any) Config {
	if c == nil {
		c = Config{}
	}
	c[key] = v
	return c
}

func (c Config) boolean(key string, def bool) bool {
	if v, ok := c[key].(bool); ok {
		return v
	}
	return def
}

func (c Config) oneOf(key, def string, allowed ...string) string {
	v, ok := c[key].(string)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

func (c Config) number(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (c Config) intRange(key string, def, min, max int) int {
	f, ok := c.number(key)
	if !ok {
		return def
	}
	n := int(f)
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func (c Config) floatRange(key string, def, min, max float64) float64 {
	f, ok := c.number(key)
	if !ok {
		return def
	}
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
