package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/widget"
)

// Request identifies the data one widget needs for the current view context.
type Request struct {
	WidgetID  string
	Type      widget.Type
	Source    widget.DataSource
	TimeRange dashboard.TimeRange
	TenantID  string
	FetchKey  string
	Refresh   bool // explicit refresh, bypasses cached answers
}

// CacheKey separates entries of the same widget once its type or source changes.
func (r Request) CacheKey() string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%s|%s", r.FetchKey, r.WidgetID, r.Type, r.Source, r.TimeRange, r.TenantID)
	sum := sha256.Sum256([]byte(raw))
	return "widget:" + hex.EncodeToString(sum[:])
}

// WidgetData is the provider answer. Data is a widget.Series, widget.Metric or widget.Table,
// or its generic JSON form when read back from a shared cache.
type WidgetData struct {
	Data        any       `json:"data"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Provider is the data provider collaborator.
type Provider interface {
	FetchWidgetData(ctx context.Context, req Request) (WidgetData, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (WidgetData, error)

func (f ProviderFunc) FetchWidgetData(ctx context.Context, req Request) (WidgetData, error) {
	return f(ctx, req)
}
