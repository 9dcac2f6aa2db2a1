package dashboard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"
)

type TimeRange string

const (
	Range7Days  TimeRange = "7d"
	Range30Days TimeRange = "30d"
	Range90Days TimeRange = "90d"
	Range1Year  TimeRange = "1y"
	RangeAll    TimeRange = "all"
	RangeCustom TimeRange = "custom"
)

func (t TimeRange) Valid() bool {
	switch t {
	case Range7Days, Range30Days, Range90Days, Range1Year, RangeAll, RangeCustom:
		return true
	}
	return false
}

// Window returns the lower bound of the range relative to now. Zero means unbounded.
func (t TimeRange) Window(now time.Time) time.Time {
	switch t {
	case Range7Days:
		return now.AddDate(0, 0, -7)
	case Range30Days, RangeCustom:
		return now.AddDate(0, 0, -30)
	case Range90Days:
		return now.AddDate(0, 0, -90)
	case Range1Year:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

const DraftPrefix = "draft-"

// NewDraftID returns a temporary widget identity valid until the first save.
func NewDraftID() string {
	return DraftPrefix + uuid.NewString()
}

func IsDraftID(id string) bool {
	return id == "" || strings.HasPrefix(id, DraftPrefix)
}

type Widget struct {
	ID         string            `json:"id" bson:"id"`
	Type       widget.Type       `json:"widget_type" bson:"widget_type"`
	Title      string            `json:"title" bson:"title"`
	DataSource widget.DataSource `json:"data_source" bson:"data_source"`
	Config     widget.Config     `json:"config" bson:"config"`
	PositionX  int               `json:"position_x" bson:"position_x"`
	PositionY  int               `json:"position_y" bson:"position_y"`
	Width      int               `json:"width" bson:"width"`
	Height     int               `json:"height" bson:"height"`
	Order      int               `json:"order" bson:"order"`
}

// Item is the layout rectangle of the widget.
func (w Widget) Item() layout.Item {
	return layout.Item{I: w.ID, X: w.PositionX, Y: w.PositionY, W: w.Width, H: w.Height}
}

// Settings decodes the stored config into the typed variant of the widget type.
func (w Widget) Settings() widget.Settings {
	return widget.Decode(w.Type, w.Config)
}

type Dashboard struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	IsShared         bool      `json:"is_shared"`
	IsDefault        bool      `json:"is_default"`
	DefaultTimeRange TimeRange `json:"default_time_range"`
	RefreshInterval  int       `json:"refresh_interval"` // seconds, 0 = manual only
	Widgets          []Widget  `json:"widgets"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Layout returns the stored (lg) layout of the dashboard.
func (d *Dashboard) Layout() []layout.Item {
	items := make([]layout.Item, 0, len(d.Widgets))
	for _, w := range d.Widgets {
		items = append(items, w.Item())
	}
	return items
}

// ApplyLayout copies rectangles back onto widgets matched by id. Order is left alone.
func (d *Dashboard) ApplyLayout(items []layout.Item) {
	byID := make(map[string]layout.Item, len(items))
	for _, it := range items {
		byID[it.I] = it
	}
	for i := range d.Widgets {
		if it, ok := byID[d.Widgets[i].ID]; ok {
			d.Widgets[i].PositionX = it.X
			d.Widgets[i].PositionY = it.Y
			d.Widgets[i].Width = it.W
			d.Widgets[i].Height = it.H
		}
	}
}

// Widget finds a widget by id.
func (d *Dashboard) Widget(id string) (Widget, bool) {
	for _, w := range d.Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

// Copy returns a deep copy; widget configs are cloned.
func (d *Dashboard) Copy() *Dashboard {
	out := *d
	out.Widgets = make([]Widget, len(d.Widgets))
	for i, w := range d.Widgets {
		w.Config = w.Config.Clone()
		out.Widgets[i] = w
	}
	return &out
}

// NormalizeOrder rewrites order as 0..n-1 from array position.
func (d *Dashboard) NormalizeOrder() {
	for i := range d.Widgets {
		d.Widgets[i].Order = i
	}
}

// Validate reports every problem that blocks persisting the document.
func (d *Dashboard) Validate() error {
	var problems errs.ValidationErrors
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, errs.Invalid("", "name", "name is required"))
	}
	if d.DefaultTimeRange != "" && !d.DefaultTimeRange.Valid() {
		problems = append(problems, errs.Invalid("", "default_time_range", "unknown time range %q", d.DefaultTimeRange))
	}
	if d.RefreshInterval < 0 {
		problems = append(problems, errs.Invalid("", "refresh_interval", "must not be negative"))
	}

	seen := make(map[string]struct{}, len(d.Widgets))
	for _, w := range d.Widgets {
		if w.ID != "" {
			if _, dup := seen[w.ID]; dup {
				problems = append(problems, errs.Invalid(w.ID, "id", "duplicate widget id"))
			}
			seen[w.ID] = struct{}{}
		}
		if err := ValidateWidget(w); err != nil {
			problems = append(problems, err.(errs.ValidationErrors)...)
		}
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// ValidateWidget checks title, data source and type compatibility of one widget.
func ValidateWidget(w Widget) error {
	var problems errs.ValidationErrors
	if strings.TrimSpace(w.Title) == "" {
		problems = append(problems, errs.Invalid(w.ID, "title", "title is required"))
	}
	if _, err := widget.ParseType(string(w.Type)); err != nil {
		problems = append(problems, errs.Invalid(w.ID, "widget_type", "%v", err))
	}
	switch {
	case w.DataSource == "":
		problems = append(problems, errs.Invalid(w.ID, "data_source", "data source is required"))
	case !widget.IsCompatible(w.Type, w.DataSource):
		problems = append(problems, errs.Invalid(w.ID, "data_source", "%s is not compatible with %s", w.DataSource, w.Type))
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// ListFilter narrows List results. Nil pointers do not filter.
type ListFilter struct {
	Shared  *bool
	Default *bool
}
