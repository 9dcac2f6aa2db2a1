package runtime

import (
	"fmt"
	"sync"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/analytics"
	"go-lms/internal/features/binding"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"
	"go-lms/internal/scheduler"

	"go.uber.org/zap"
)

const NoWidgetsMessage = "No widgets configured"

// Platform is the host that owns the real fullscreen state. Exits it triggers on its own
// are reported back through Runtime.FullscreenChanged.
type Platform interface {
	RequestFullscreen() error
	ExitFullscreen() error
}

type Options struct {
	TimeRange dashboard.TimeRange // overrides the document default when set
	TenantID  string
	Timeout   time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
	// OnChange is signalled after any visible change. It must not block.
	OnChange func()
}

// Runtime is the read-only view of one persisted dashboard. Each widget has its own binding;
// refreshes drive all of them together.
type Runtime struct {
	mu sync.Mutex

	doc      *dashboard.Dashboard
	bindings []*binding.Binding

	timeRange       dashboard.TimeRange
	tenantID        string
	autoRefreshing  bool
	fullscreen      bool
	lastRefreshedAt time.Time
	generation      uint64
	cancelTimer     scheduler.Cancel
	closed          bool

	sched    scheduler.Scheduler
	platform Platform
	logger   *zap.Logger
	now      func() time.Time
	onChange func()
}

// New mounts the runtime: bindings start fetching and the auto-refresh timer is armed when
// the dashboard has a refresh interval.
func New(doc *dashboard.Dashboard, provider analytics.Provider, sched scheduler.Scheduler, platform Platform, opts Options) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tr := opts.TimeRange
	if !tr.Valid() {
		tr = doc.DefaultTimeRange
	}
	if !tr.Valid() {
		tr = dashboard.Range30Days
	}

	r := &Runtime{
		doc:            doc.Copy(),
		timeRange:      tr,
		tenantID:       opts.TenantID,
		autoRefreshing: doc.RefreshInterval > 0,
		sched:          sched,
		platform:       platform,
		logger:         logger.With(zap.String("dashboard_id", doc.ID)),
		now:            now,
		onChange:       opts.OnChange,
	}

	ctx := binding.Context{TimeRange: tr, TenantID: opts.TenantID}
	for _, w := range r.doc.Widgets {
		r.bindings = append(r.bindings, binding.New(w, ctx, 0, binding.Options{
			Provider: provider,
			Timeout:  opts.Timeout,
			Logger:   logger,
			OnChange: func(binding.Snapshot) { r.changed() },
		}))
	}

	r.mu.Lock()
	r.armTimerLocked()
	r.mu.Unlock()

	for _, b := range r.bindings {
		b.Start()
	}
	return r
}

// Refresh bumps the refresh generation and re-fetches every widget. LastRefreshedAt moves
// immediately, before any widget answers.
func (r *Runtime) Refresh() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.generation++
	r.lastRefreshedAt = r.now()
	r.mu.Unlock()

	for _, b := range r.bindings {
		b.Refetch()
	}
	r.changed()
}

// ToggleAutoRefresh flips auto refresh and returns the new value. Dashboards without a
// refresh interval stay manual.
func (r *Runtime) ToggleAutoRefresh() bool {
	r.mu.Lock()
	if r.closed || r.doc.RefreshInterval <= 0 {
		on := r.autoRefreshing
		r.mu.Unlock()
		return on
	}
	r.autoRefreshing = !r.autoRefreshing
	r.armTimerLocked()
	on := r.autoRefreshing
	r.mu.Unlock()

	r.changed()
	return on
}

func (r *Runtime) SetTimeRange(tr dashboard.TimeRange) error {
	if !tr.Valid() {
		return errs.ValidationErrors{errs.Invalid("", "time_range", "unknown time range %q", tr)}
	}
	r.mu.Lock()
	if r.closed || r.timeRange == tr {
		r.mu.Unlock()
		return nil
	}
	r.timeRange = tr
	ctx := binding.Context{TimeRange: tr, TenantID: r.tenantID}
	r.mu.Unlock()

	r.rebind(ctx)
	return nil
}

func (r *Runtime) SetTenant(tenantID string) {
	r.mu.Lock()
	if r.closed || r.tenantID == tenantID {
		r.mu.Unlock()
		return
	}
	r.tenantID = tenantID
	ctx := binding.Context{TimeRange: r.timeRange, TenantID: tenantID}
	r.mu.Unlock()

	r.rebind(ctx)
}

func (r *Runtime) RequestFullscreen() error {
	if r.platform == nil {
		return fmt.Errorf("fullscreen not supported")
	}
	if err := r.platform.RequestFullscreen(); err != nil {
		return err
	}
	r.FullscreenChanged(true)
	return nil
}

func (r *Runtime) ExitFullscreen() error {
	if r.platform == nil {
		return fmt.Errorf("fullscreen not supported")
	}
	if err := r.platform.ExitFullscreen(); err != nil {
		return err
	}
	r.FullscreenChanged(false)
	return nil
}

// FullscreenChanged records the platform's fullscreen state, including exits the runtime did
// not ask for.
func (r *Runtime) FullscreenChanged(active bool) {
	r.mu.Lock()
	if r.closed || r.fullscreen == active {
		r.mu.Unlock()
		return
	}
	r.fullscreen = active
	r.mu.Unlock()
	r.changed()
}

// Close tears down the refresh timer and every binding.
func (r *Runtime) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
	r.mu.Unlock()

	for _, b := range r.bindings {
		b.Close()
	}
}

// Wait blocks until in-flight widget fetches have settled.
func (r *Runtime) Wait() {
	for _, b := range r.bindings {
		b.Wait()
	}
}

type State struct {
	TimeRange         dashboard.TimeRange `json:"time_range"`
	TenantID          string              `json:"tenant_id,omitempty"`
	IsAutoRefreshing  bool                `json:"is_auto_refreshing"`
	IsFullscreen      bool                `json:"is_fullscreen"`
	LastRefreshedAt   time.Time           `json:"last_refreshed_at,omitempty"`
	RefreshGeneration uint64              `json:"refresh_generation"`
}

func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Runtime) stateLocked() State {
	return State{
		TimeRange:         r.timeRange,
		TenantID:          r.tenantID,
		IsAutoRefreshing:  r.autoRefreshing,
		IsFullscreen:      r.fullscreen,
		LastRefreshedAt:   r.lastRefreshedAt,
		RefreshGeneration: r.generation,
	}
}

type WidgetView struct {
	Widget  dashboard.Widget `json:"widget"`
	Layout  layout.Item      `json:"layout"`
	Binding binding.Snapshot `json:"binding"`
	Output  *widget.Output   `json:"output,omitempty"`
}

// View is what a viewer renders for one breakpoint.
type View struct {
	DashboardID     string            `json:"dashboard_id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	RefreshInterval int               `json:"refresh_interval"`
	State           State             `json:"state"`
	Breakpoint      layout.Breakpoint `json:"breakpoint"`
	Columns         int               `json:"columns"`
	Widgets         []WidgetView      `json:"widgets"`
	Message         string            `json:"message,omitempty"`
}

// Snapshot renders the dashboard for bp. Widgets that have data carry their rendered output;
// the others show their binding state only.
func (r *Runtime) Snapshot(bp layout.Breakpoint) View {
	r.mu.Lock()
	state := r.stateLocked()
	r.mu.Unlock()

	view := View{
		DashboardID:     r.doc.ID,
		Name:            r.doc.Name,
		Description:     r.doc.Description,
		RefreshInterval: r.doc.RefreshInterval,
		State:           state,
		Breakpoint:      bp,
		Columns:         layout.ColumnsFor(bp),
		Widgets:         make([]WidgetView, 0, len(r.doc.Widgets)),
	}
	if len(r.doc.Widgets) == 0 {
		view.Message = NoWidgetsMessage
		return view
	}

	items := make(map[string]layout.Item, len(r.doc.Widgets))
	for _, it := range layout.ForBreakpoint(r.doc.Layout(), bp) {
		items[it.I] = it
	}
	for i, w := range r.doc.Widgets {
		snap := r.bindings[i].Snapshot()
		wv := WidgetView{Widget: w, Layout: items[w.ID], Binding: snap}
		if snap.State == binding.StateSuccess {
			out := widget.Render(w.Type, snap.Data, w.Config)
			wv.Output = &out
		}
		view.Widgets = append(view.Widgets, wv)
	}
	return view
}

func (r *Runtime) rebind(ctx binding.Context) {
	r.mu.Lock()
	r.armTimerLocked()
	r.mu.Unlock()

	for _, b := range r.bindings {
		b.SetContext(ctx)
	}
	r.changed()
}

// armTimerLocked replaces the auto-refresh timer so the next tick is a full interval away.
func (r *Runtime) armTimerLocked() {
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
	if !r.autoRefreshing || r.closed || r.sched == nil || r.doc.RefreshInterval <= 0 {
		return
	}
	interval := time.Duration(r.doc.RefreshInterval) * time.Second
	cancel, err := r.sched.Every(interval, r.Refresh)
	if err != nil {
		r.logger.Warn("auto refresh not armed", zap.Duration("interval", interval), zap.Error(err))
		return
	}
	r.cancelTimer = cancel
}

func (r *Runtime) changed() {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if !closed && r.onChange != nil {
		r.onChange()
	}
}
