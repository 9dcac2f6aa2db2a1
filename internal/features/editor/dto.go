package editor

import (
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"
)

type OpenRequest struct {
	DashboardID string `json:"dashboard_id"`
}

type AddWidgetRequest struct {
	Type       string `json:"widget_type" validate:"required"`
	Title      string `json:"title" validate:"max=120"`
	DataSource string `json:"data_source" validate:"required"`
}

type AddWidgetResponse struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"session"`
}

type UpdateWidgetRequest struct {
	Title      *string       `json:"title" validate:"omitempty,max=120"`
	Type       *string       `json:"widget_type"`
	DataSource *string       `json:"data_source"`
	Config     widget.Config `json:"config"`
}

func (r UpdateWidgetRequest) toPatch() Patch {
	p := Patch{Title: r.Title, Config: r.Config}
	if r.Type != nil {
		t := widget.Type(*r.Type)
		p.Type = &t
	}
	if r.DataSource != nil {
		s := widget.DataSource(*r.DataSource)
		p.DataSource = &s
	}
	return p
}

type LayoutRequest struct {
	Layout []layout.Item `json:"layout" validate:"dive"`
}

type MetadataRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=120"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	DefaultTimeRange *string `json:"default_time_range"`
	RefreshInterval  *int    `json:"refresh_interval" validate:"omitempty,min=0,max=86400"`
	IsShared         *bool   `json:"is_shared"`
}

func (r MetadataRequest) toMetadata() Metadata {
	m := Metadata{
		Name:            r.Name,
		Description:     r.Description,
		RefreshInterval: r.RefreshInterval,
		IsShared:        r.IsShared,
	}
	if r.DefaultTimeRange != nil {
		tr := dashboard.TimeRange(*r.DefaultTimeRange)
		m.DefaultTimeRange = &tr
	}
	return m
}
