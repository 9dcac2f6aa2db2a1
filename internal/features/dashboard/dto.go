package dashboard

import (
	"go-lms/internal/common/api"
	"go-lms/internal/features/widget"

	"github.com/go-playground/validator/v10"
)

const (
	widgetTypeTag = "widget_type"
	dataSourceTag = "data_source"
)

func init() {
	_ = api.Validate.RegisterValidation(widgetTypeTag, func(fl validator.FieldLevel) bool {
		_, err := widget.ParseType(fl.Field().String())
		return err == nil
	})
	api.RegisterCustomTranslation(widgetTypeTag, "{0} is not a known widget type")

	_ = api.Validate.RegisterValidation(dataSourceTag, func(fl validator.FieldLevel) bool {
		_, err := widget.ParseDataSource(fl.Field().String())
		return err == nil
	})
	api.RegisterCustomTranslation(dataSourceTag, "{0} is not a known data source")
}

type WidgetRequest struct {
	ID         string        `json:"id"`
	Type       string        `json:"widget_type" validate:"required,widget_type"`
	Title      string        `json:"title" validate:"notblank,max=120"`
	DataSource string        `json:"data_source" validate:"required,data_source"`
	Config     widget.Config `json:"config"`
	PositionX  int           `json:"position_x" validate:"min=0"`
	PositionY  int           `json:"position_y" validate:"min=0"`
	Width      int           `json:"width" validate:"min=0,max=12"`
	Height     int           `json:"height" validate:"min=0,max=8"`
}

// DashboardRequest is the body of create and replace.
type DashboardRequest struct {
	Name             string          `json:"name" validate:"notblank,max=120"`
	Description      string          `json:"description" validate:"max=1000"`
	IsShared         bool            `json:"is_shared"`
	IsDefault        bool            `json:"is_default"`
	DefaultTimeRange string          `json:"default_time_range" validate:"omitempty,oneof=7d 30d 90d 1y all custom"`
	RefreshInterval  int             `json:"refresh_interval" validate:"min=0,max=86400"`
	Widgets          []WidgetRequest `json:"widgets" validate:"dive"`
}

func (r DashboardRequest) toDashboard() *Dashboard {
	d := &Dashboard{
		Name:             r.Name,
		Description:      r.Description,
		IsShared:         r.IsShared,
		IsDefault:        r.IsDefault,
		DefaultTimeRange: TimeRange(r.DefaultTimeRange),
		RefreshInterval:  r.RefreshInterval,
		Widgets:          make([]Widget, 0, len(r.Widgets)),
	}
	for _, w := range r.Widgets {
		d.Widgets = append(d.Widgets, Widget{
			ID:         w.ID,
			Type:       widget.Type(w.Type),
			Title:      w.Title,
			DataSource: widget.DataSource(w.DataSource),
			Config:     w.Config,
			PositionX:  w.PositionX,
			PositionY:  w.PositionY,
			Width:      w.Width,
			Height:     w.Height,
		})
	}
	return d
}

type ShareRequest struct {
	IsShared *bool `json:"is_shared" validate:"required"`
}
