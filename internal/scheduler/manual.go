package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler that only fires when told to. Tests drive timers with it.
type Manual struct {
	mu     sync.Mutex
	nextID int
	tasks  map[int]manualTask
	named  map[string]func()
}

type manualTask struct {
	interval time.Duration
	fn       func()
}

func NewManual() *Manual {
	return &Manual{tasks: make(map[int]manualTask), named: make(map[string]func())}
}

func (m *Manual) Every(interval time.Duration, fn func()) (Cancel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.tasks[id] = manualTask{interval: interval, fn: fn}
	return func() {
		m.mu.Lock()
		delete(m.tasks, id)
		m.mu.Unlock()
	}, nil
}

func (m *Manual) Named(name, spec string, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.named[name] = fn
	return nil
}

// Tick fires every active interval task once, in registration order.
func (m *Manual) Tick() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.tasks[id].fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// RunNamed fires a named job.
func (m *Manual) RunNamed(name string) bool {
	m.mu.Lock()
	fn, ok := m.named[name]
	m.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// Active returns the number of live interval tasks.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Intervals lists the intervals of live tasks.
func (m *Manual) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.interval)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
