package binding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/analytics"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/scheduler"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// FetchKey derives the identity of a widget fetch from its inputs. Equal inputs give equal keys.
func FetchKey(widgetID string, timeRange dashboard.TimeRange, tenantID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%q|%q|%q", widgetID, timeRange, tenantID)))
	return hex.EncodeToString(sum[:16])
}

// Context is the dashboard-wide filter a binding resolves against.
type Context struct {
	TimeRange dashboard.TimeRange `json:"time_range"`
	TenantID  string              `json:"tenant_id,omitempty"`
}

// Snapshot is a consistent copy of the binding state.
type Snapshot struct {
	WidgetID    string    `json:"widget_id"`
	FetchKey    string    `json:"fetch_key"`
	State       State     `json:"state"`
	Refetching  bool      `json:"refetching"`
	Data        any       `json:"data,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type Options struct {
	Provider  analytics.Provider
	Scheduler scheduler.Scheduler
	Timeout   time.Duration
	Logger    *zap.Logger
	// OnChange receives every visible transition. It is called without the binding lock held.
	OnChange func(Snapshot)
}

// Binding resolves one widget's data for the current context, polls when a refresh interval is
// set, and ignores answers that belong to a superseded fetch.
type Binding struct {
	mu sync.Mutex

	widget   dashboard.Widget
	ctx      Context
	key      string
	interval time.Duration

	state       State
	refetching  bool
	data        any
	generatedAt time.Time
	err         error

	generation  uint64
	cancelFetch context.CancelFunc
	cancelTimer scheduler.Cancel
	closed      bool
	inflight    sync.WaitGroup

	provider analytics.Provider
	sched    scheduler.Scheduler
	timeout  time.Duration
	logger   *zap.Logger
	onChange func(Snapshot)
}

func New(w dashboard.Widget, c Context, interval time.Duration, opts Options) *Binding {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Binding{
		widget:   w,
		ctx:      c,
		key:      FetchKey(w.ID, c.TimeRange, c.TenantID),
		interval: interval,
		state:    StateIdle,
		provider: opts.Provider,
		sched:    opts.Scheduler,
		timeout:  timeout,
		logger:   logger.With(zap.String("widget_id", w.ID)),
		onChange: opts.OnChange,
	}
}

// Start issues the first fetch and arms the refresh timer.
func (b *Binding) Start() {
	b.mu.Lock()
	if b.closed || b.state != StateIdle {
		b.mu.Unlock()
		return
	}
	b.armTimerLocked()
	snap := b.beginFetchLocked(false)
	b.mu.Unlock()
	b.notify(snap)
}

// SetContext switches time range or tenant. A new key drops the previous data, cancels the
// in-flight fetch and restarts the timer.
func (b *Binding) SetContext(c Context) {
	b.mu.Lock()
	key := FetchKey(b.widget.ID, c.TimeRange, c.TenantID)
	if b.closed || key == b.key {
		b.mu.Unlock()
		return
	}
	b.ctx = c
	b.key = key
	b.data = nil
	b.generatedAt = time.Time{}
	b.err = nil
	b.state = StateIdle
	b.armTimerLocked()
	snap := b.beginFetchLocked(false)
	b.mu.Unlock()
	b.notify(snap)
}

// SetRefreshInterval changes the polling period. Zero disables polling.
func (b *Binding) SetRefreshInterval(interval time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || interval == b.interval {
		return
	}
	b.interval = interval
	b.armTimerLocked()
}

// Refetch re-runs the fetch for the current key, keeping data visible while it runs.
func (b *Binding) Refetch() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	snap := b.beginFetchLocked(true)
	b.mu.Unlock()
	b.notify(snap)
}

// Close cancels the timer and any pending fetch. No transitions are reported afterwards.
func (b *Binding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.generation++
	if b.cancelTimer != nil {
		b.cancelTimer()
		b.cancelTimer = nil
	}
	if b.cancelFetch != nil {
		b.cancelFetch()
		b.cancelFetch = nil
	}
	b.mu.Unlock()
}

// Wait blocks until fetch goroutines started so far have returned.
func (b *Binding) Wait() {
	b.inflight.Wait()
}

func (b *Binding) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Binding) Key() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

func (b *Binding) snapshotLocked() Snapshot {
	s := Snapshot{
		WidgetID:    b.widget.ID,
		FetchKey:    b.key,
		State:       b.state,
		Refetching:  b.refetching,
		Data:        b.data,
		GeneratedAt: b.generatedAt,
	}
	if b.err != nil {
		s.Error = b.err.Error()
	}
	return s
}

func (b *Binding) armTimerLocked() {
	if b.cancelTimer != nil {
		b.cancelTimer()
		b.cancelTimer = nil
	}
	if b.interval <= 0 || b.sched == nil {
		return
	}
	cancel, err := b.sched.Every(b.interval, b.Refetch)
	if err != nil {
		b.logger.Warn("refresh timer not armed", zap.Duration("interval", b.interval), zap.Error(err))
		return
	}
	b.cancelTimer = cancel
}

// beginFetchLocked supersedes any in-flight fetch and starts a new one.
func (b *Binding) beginFetchLocked(refresh bool) Snapshot {
	if b.cancelFetch != nil {
		b.cancelFetch()
	}
	b.generation++
	gen := b.generation

	if b.state == StateSuccess {
		b.refetching = true
	} else {
		b.state = StateLoading
		b.refetching = false
	}

	req := analytics.Request{
		WidgetID:  b.widget.ID,
		Type:      b.widget.Type,
		Source:    b.widget.DataSource,
		TimeRange: b.ctx.TimeRange,
		TenantID:  b.ctx.TenantID,
		FetchKey:  b.key,
		Refresh:   refresh,
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	b.cancelFetch = cancel
	b.inflight.Add(1)
	go b.fetch(ctx, cancel, gen, req)

	return b.snapshotLocked()
}

func (b *Binding) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, req analytics.Request) {
	defer b.inflight.Done()
	defer cancel()

	data, err := b.call(ctx, req)

	b.mu.Lock()
	if b.closed || gen != b.generation || req.FetchKey != b.key {
		b.mu.Unlock()
		return
	}
	b.cancelFetch = nil
	b.refetching = false
	if err != nil {
		b.state = StateError
		b.data = nil
		b.err = &errs.FetchError{WidgetID: req.WidgetID, Reason: reason(err), Err: err}
		b.logger.Warn("widget fetch failed", zap.String("fetch_key", req.FetchKey), zap.Error(err))
	} else {
		b.state = StateSuccess
		b.data = data.Data
		b.generatedAt = data.GeneratedAt
		b.err = nil
	}
	snap := b.snapshotLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// call shields siblings from a provider that panics.
func (b *Binding) call(ctx context.Context, req analytics.Request) (data analytics.WidgetData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	if b.provider == nil {
		return analytics.WidgetData{}, errors.New("no data provider configured")
	}
	return b.provider.FetchWidgetData(ctx, req)
}

func reason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var apiErr *errs.ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (b *Binding) notify(s Snapshot) {
	if b.onChange != nil {
		b.onChange(s)
	}
}
