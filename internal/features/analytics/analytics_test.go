package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryPerDialect(t *testing.T) {
	q := sources[widget.SourceLoginFrequency]
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dialect  dialect
		since    any
		tenant   string
		contains []string
		args     int
	}{
		{"postgres with tenant", postgres, since, "t1", []string{"created_at >= $1", "tenant_id = $2", "AND event_type = 'login'", "date_trunc"}, 2},
		{"mysql window only", mysql, since, "", []string{"created_at >= ?", "DATE_FORMAT"}, 1},
		{"clickhouse unbounded", clickhouse, nil, "", []string{"WHERE event_type = 'login'", "toDate"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := q.build(tt.dialect, tt.since, tt.tenant)
			for _, c := range tt.contains {
				assert.Contains(t, sql, c)
			}
			assert.Len(t, args, tt.args)
		})
	}
}

func TestTenantComparisonIgnoresTenantFilter(t *testing.T) {
	sql, args := sources[widget.SourceTenantComparison].build(postgres, nil, "t1")
	assert.NotContains(t, sql, "tenant_id = $")
	assert.Empty(t, args)
}

func TestEverySourceHasAQuery(t *testing.T) {
	for _, s := range widget.DataSources() {
		_, ok := sources[s]
		assert.True(t, ok, "missing query for %s", s)
	}
}

func TestShapeByWidgetType(t *testing.T) {
	q := sources[widget.SourceUserGrowth]
	s := widget.Series{
		Labels:   []string{"d1", "d2", "d3", "d4"},
		Datasets: []widget.Dataset{{Label: "New users", Values: []float64{10, 10, 15, 15}}},
	}

	metric, ok := q.shape(widget.TypeStatCard, s).(widget.Metric)
	require.True(t, ok)
	assert.Equal(t, 50.0, metric.Value)
	require.NotNil(t, metric.Change)
	assert.Equal(t, 50.0, *metric.Change)

	table, ok := q.shape(widget.TypeTable, s).(widget.Table)
	require.True(t, ok)
	assert.Equal(t, []string{"day", "New users"}, table.Columns)
	assert.Equal(t, map[string]any{"day": "d1", "New users": 10.0}, table.Rows[0])

	assert.Equal(t, s, q.shape(widget.TypeLineChart, s))
}

func TestShapeMetricFromSecondaryDataset(t *testing.T) {
	q := sources[widget.SourceCourseMetrics]
	s := widget.Series{
		Labels: []string{"Go", "SQL"},
		Datasets: []widget.Dataset{
			{Values: []float64{10, 20}},
			{Values: []float64{5, 5}},
			{Values: []float64{50, 25}},
		},
	}
	m := q.shape(widget.TypeProgressRing, s).(widget.Metric)
	assert.Equal(t, 37.5, m.Value)
	assert.Equal(t, "%", m.Unit)
	assert.Nil(t, m.Change)
}

func TestNumberAndLabelConversion(t *testing.T) {
	assert.Equal(t, 3.5, number([]byte("3.5")))
	assert.Equal(t, 7.0, number(uint64(7)))
	assert.Equal(t, 0.0, number(nil))
	assert.Equal(t, "13", label(int64(13)))
	assert.Equal(t, "2026-03-04", label(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "unknown", label(nil))
}

func TestMemoryCacheTTLAndEviction(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(2)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "a", WidgetData{Data: 1}, time.Minute)
	now = now.Add(time.Second)
	c.Set(ctx, "b", WidgetData{Data: 2}, time.Minute)
	now = now.Add(time.Second)
	_, ok := c.Get(ctx, "a") // a is now the most recently used
	require.True(t, ok)

	c.Set(ctx, "c", WidgetData{Data: 3}, time.Minute)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Size())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Size())
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) FetchWidgetData(ctx context.Context, req Request) (WidgetData, error) {
	p.calls++
	if p.err != nil {
		return WidgetData{}, p.err
	}
	return WidgetData{Data: widget.Metric{Value: float64(p.calls)}, GeneratedAt: time.Now()}, nil
}

func TestCachedProvider(t *testing.T) {
	next := &countingProvider{}
	p := NewCachedProvider(next, NewMemoryCache(10), time.Minute, nil)
	ctx := context.Background()
	req := Request{WidgetID: "w1", Type: widget.TypeStatCard, Source: widget.SourceActiveUsers, TimeRange: dashboard.Range7Days}

	first, err := p.FetchWidgetData(ctx, req)
	require.NoError(t, err)
	second, err := p.FetchWidgetData(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	other := req
	other.TenantID = "t2"
	_, _ = p.FetchWidgetData(ctx, other)
	assert.Equal(t, 2, next.calls)

	refresh := req
	refresh.Refresh = true
	fresh, err := p.FetchWidgetData(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)

	cached, _ := p.FetchWidgetData(ctx, req)
	assert.Equal(t, fresh, cached)
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	next := &countingProvider{err: errors.New("warehouse down")}
	p := NewCachedProvider(next, NewMemoryCache(10), time.Minute, nil)
	req := Request{WidgetID: "w1", Source: widget.SourceActiveUsers}

	_, err := p.FetchWidgetData(context.Background(), req)
	assert.Error(t, err)
	next.err = nil
	_, err = p.FetchWidgetData(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCacheKeyDependsOnEveryInput(t *testing.T) {
	base := Request{WidgetID: "w1", Type: widget.TypeLineChart, Source: widget.SourceUserGrowth, TimeRange: dashboard.Range30Days}
	assert.Equal(t, base.CacheKey(), base.CacheKey())

	changed := []Request{base, base, base, base}
	changed[0].Type = widget.TypeAreaChart
	changed[1].Source = widget.SourceActiveUsers
	changed[2].TimeRange = dashboard.Range7Days
	changed[3].TenantID = "t"
	for _, r := range changed {
		assert.NotEqual(t, base.CacheKey(), r.CacheKey())
	}
	withRefresh := base
	withRefresh.Refresh = true
	assert.Equal(t, base.CacheKey(), withRefresh.CacheKey())
}
