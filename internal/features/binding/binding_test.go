package binding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/analytics"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/widget"
	"go-lms/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedProvider holds every fetch until the test releases it by fetch key.
type gatedProvider struct {
	mu      sync.Mutex
	gates   map[string]chan analytics.WidgetData
	calls   []analytics.Request
	started chan analytics.Request
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{gates: map[string]chan analytics.WidgetData{}, started: make(chan analytics.Request, 16)}
}

func (p *gatedProvider) gate(key string) chan analytics.WidgetData {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gates[key]
	if !ok {
		g = make(chan analytics.WidgetData, 1)
		p.gates[key] = g
	}
	return g
}

func (p *gatedProvider) FetchWidgetData(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	g := p.gate(req.FetchKey)
	p.started <- req
	select {
	case d := <-g:
		return d, nil
	case <-time.After(2 * time.Second):
		return analytics.WidgetData{}, errors.New("gate never released")
	}
}

func (p *gatedProvider) waitStarted(t *testing.T) analytics.Request {
	t.Helper()
	select {
	case r := <-p.started:
		return r
	case <-time.After(time.Second):
		t.Fatal("fetch did not start")
		return analytics.Request{}
	}
}

func statWidget() dashboard.Widget {
	return dashboard.Widget{ID: "w1", Type: widget.TypeStatCard, Title: "Users", DataSource: widget.SourceActiveUsers}
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) add(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func TestFetchKey(t *testing.T) {
	a := FetchKey("w1", dashboard.Range7Days, "t1")
	assert.Equal(t, a, FetchKey("w1", dashboard.Range7Days, "t1"))
	assert.NotEqual(t, a, FetchKey("w1", dashboard.Range30Days, "t1"))
	assert.NotEqual(t, a, FetchKey("w1", dashboard.Range7Days, ""))
	assert.NotEqual(t, a, FetchKey("w2", dashboard.Range7Days, "t1"))
}

func TestBinding_Lifecycle(t *testing.T) {
	p := newGatedProvider()
	rec := &recorder{}
	b := New(statWidget(), Context{TimeRange: dashboard.Range7Days}, 0, Options{Provider: p, OnChange: rec.add})

	assert.Equal(t, StateIdle, b.Snapshot().State)
	b.Start()
	req := p.waitStarted(t)
	assert.Equal(t, StateLoading, b.Snapshot().State)
	assert.False(t, req.Refresh)

	p.gate(req.FetchKey) <- analytics.WidgetData{Data: widget.Metric{Value: 42}}
	b.Wait()

	snap := b.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, widget.Metric{Value: 42}, snap.Data)

	b.Refetch()
	req = p.waitStarted(t)
	assert.True(t, req.Refresh)
	snap = b.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.True(t, snap.Refetching)
	assert.NotNil(t, snap.Data, "previous data stays visible while refetching")

	p.gate(req.FetchKey) <- analytics.WidgetData{Data: widget.Metric{Value: 43}}
	b.Wait()
	assert.Equal(t, widget.Metric{Value: 43}, b.Snapshot().Data)
	assert.False(t, b.Snapshot().Refetching)

	states := []State{}
	for _, s := range rec.all() {
		states = append(states, s.State)
	}
	assert.Equal(t, []State{StateLoading, StateSuccess, StateSuccess, StateSuccess}, states)
}

func TestBinding_StaleResponseIgnored(t *testing.T) {
	p := newGatedProvider()
	b := New(statWidget(), Context{TimeRange: dashboard.Range7Days}, 0, Options{Provider: p})
	b.Start()
	first := p.waitStarted(t)

	b.SetContext(Context{TimeRange: dashboard.Range30Days})
	second := p.waitStarted(t)
	require.NotEqual(t, first.FetchKey, second.FetchKey)

	// the newer answer lands first, then the superseded one
	p.gate(second.FetchKey) <- analytics.WidgetData{Data: "fresh"}
	require.Eventually(t, func() bool { return b.Snapshot().State == StateSuccess }, time.Second, 5*time.Millisecond)
	p.gate(first.FetchKey) <- analytics.WidgetData{Data: "stale"}
	b.Wait()

	snap := b.Snapshot()
	assert.Equal(t, "fresh", snap.Data)
	assert.Equal(t, second.FetchKey, snap.FetchKey)
}

func TestBinding_ContextChangeClearsData(t *testing.T) {
	p := newGatedProvider()
	b := New(statWidget(), Context{TimeRange: dashboard.Range7Days}, 0, Options{Provider: p})
	b.Start()
	req := p.waitStarted(t)
	p.gate(req.FetchKey) <- analytics.WidgetData{Data: "week"}
	b.Wait()

	b.SetContext(Context{TimeRange: dashboard.Range7Days, TenantID: "t2"})
	snap := b.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Nil(t, snap.Data)

	req = p.waitStarted(t)
	assert.Equal(t, "t2", req.TenantID)
	p.gate(req.FetchKey) <- analytics.WidgetData{Data: "tenant"}
	b.Wait()
	assert.Equal(t, "tenant", b.Snapshot().Data)

	// same context is a no-op
	b.SetContext(Context{TimeRange: dashboard.Range7Days, TenantID: "t2"})
	assert.Equal(t, StateSuccess, b.Snapshot().State)
}

func TestBinding_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider analytics.Provider
		reason   string
	}{
		{
			name: "provider error",
			provider: analytics.ProviderFunc(func(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
				return analytics.WidgetData{}, &errs.ApiError{Message: "warehouse down"}
			}),
			reason: "warehouse down",
		},
		{
			name: "provider panic",
			provider: analytics.ProviderFunc(func(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
				panic("boom")
			}),
			reason: "provider panic: boom",
		},
		{
			name: "timeout",
			provider: analytics.ProviderFunc(func(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
				<-ctx.Done()
				return analytics.WidgetData{}, ctx.Err()
			}),
			reason: "request timed out",
		},
		{
			name:   "no provider",
			reason: "no data provider configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(statWidget(), Context{}, 0, Options{Provider: tt.provider, Timeout: 20 * time.Millisecond})
			b.Start()
			b.Wait()

			snap := b.Snapshot()
			assert.Equal(t, StateError, snap.State)
			assert.Nil(t, snap.Data)
			assert.Equal(t, "widget w1: fetch failed: "+tt.reason, snap.Error)
		})
	}
}

func TestBinding_FailureIsolated(t *testing.T) {
	provider := analytics.ProviderFunc(func(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
		if req.WidgetID == "bad" {
			return analytics.WidgetData{}, errors.New("nope")
		}
		return analytics.WidgetData{Data: req.WidgetID}, nil
	})

	good := New(statWidget(), Context{}, 0, Options{Provider: provider})
	badWidget := statWidget()
	badWidget.ID = "bad"
	bad := New(badWidget, Context{}, 0, Options{Provider: provider})

	good.Start()
	bad.Start()
	good.Wait()
	bad.Wait()

	assert.Equal(t, StateSuccess, good.Snapshot().State)
	assert.Equal(t, StateError, bad.Snapshot().State)
}

func TestBinding_Timer(t *testing.T) {
	sched := scheduler.NewManual()
	var mu sync.Mutex
	calls := 0
	provider := analytics.ProviderFunc(func(ctx context.Context, req analytics.Request) (analytics.WidgetData, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return analytics.WidgetData{Data: 1}, nil
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}

	b := New(statWidget(), Context{}, 30*time.Second, Options{Provider: provider, Scheduler: sched})
	b.Start()
	b.Wait()
	assert.Equal(t, 1, count())
	assert.Equal(t, []time.Duration{30 * time.Second}, sched.Intervals())

	sched.Tick()
	b.Wait()
	assert.Equal(t, 2, count())

	b.SetRefreshInterval(time.Minute)
	assert.Equal(t, []time.Duration{time.Minute}, sched.Intervals())

	b.SetContext(Context{TimeRange: dashboard.Range90Days})
	b.Wait()
	assert.Equal(t, 1, sched.Active(), "context change re-arms a single timer")

	b.SetRefreshInterval(0)
	assert.Equal(t, 0, sched.Active())

	b.SetRefreshInterval(time.Minute)
	b.Close()
	assert.Equal(t, 0, sched.Active())

	before := count()
	sched.Tick()
	b.Refetch()
	b.Wait()
	assert.Equal(t, before, count())
}

func TestBinding_CloseSuppressesLateAnswer(t *testing.T) {
	p := newGatedProvider()
	rec := &recorder{}
	b := New(statWidget(), Context{}, 0, Options{Provider: p, OnChange: rec.add})
	b.Start()
	req := p.waitStarted(t)
	b.Close()

	p.gate(req.FetchKey) <- analytics.WidgetData{Data: "late"}
	b.Wait()

	assert.Len(t, rec.all(), 1)
	assert.Equal(t, StateLoading, b.Snapshot().State)
}
