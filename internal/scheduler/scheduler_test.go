package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCronSchedulerEveryAndCancel(t *testing.T) {
	s := NewCronScheduler(zap.NewNop())
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 10)
	cancel, err := s.Every(time.Second, func() { fired <- struct{}{} })
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("task never fired")
	}

	cancel()
	cancel()
	assert.Empty(t, s.cron.Entries())
}

func TestCronSchedulerRejectsZeroInterval(t *testing.T) {
	s := NewCronScheduler(zap.NewNop())
	_, err := s.Every(0, func() {})
	assert.Error(t, err)
}

func TestCronSchedulerNamedReplaces(t *testing.T) {
	s := NewCronScheduler(zap.NewNop())
	require.NoError(t, s.Named("reaper", "@every 1m", func() {}))
	require.NoError(t, s.Named("reaper", "@every 2m", func() {}))
	assert.Len(t, s.cron.Entries(), 1)
	assert.Error(t, s.Named("bad", "not a spec", func() {}))
}

func TestManualScheduler(t *testing.T) {
	m := NewManual()
	count := 0
	cancel, _ := m.Every(5*time.Second, func() { count++ })
	_, _ = m.Every(10*time.Second, func() { count += 10 })

	m.Tick()
	assert.Equal(t, 11, count)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, m.Intervals())

	cancel()
	m.Tick()
	assert.Equal(t, 21, count)
	assert.Equal(t, 1, m.Active())
}
