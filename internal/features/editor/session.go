package editor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/internal/features/widget"
	"go-lms/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	StateEmpty      State = "empty"
	StateDirty      State = "dirty"
	StateSaving     State = "saving"
	StateSaved      State = "saved"
	StateSaveFailed State = "save_failed"
)

// Persister is the subset of the dashboard service a session saves through.
type Persister interface {
	Create(ctx context.Context, userID string, d *dashboard.Dashboard) (*dashboard.Dashboard, error)
	Update(ctx context.Context, userID string, id string, d *dashboard.Dashboard) (*dashboard.Dashboard, error)
}

type Options struct {
	UserID  string
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// Patch carries the fields of a widget update. Nil fields are left unchanged.
type Patch struct {
	Title      *string
	Type       *widget.Type
	DataSource *widget.DataSource
	Config     widget.Config
}

// Metadata carries dashboard-level edits. Nil fields are left unchanged.
type Metadata struct {
	Name             *string
	Description      *string
	DefaultTimeRange *dashboard.TimeRange
	RefreshInterval  *int
	IsShared         *bool
}

// SaveResult is the persisted document plus the temporary to permanent id mapping.
type SaveResult struct {
	Dashboard *dashboard.Dashboard `json:"dashboard"`
	IDs       map[string]string    `json:"ids"`
}

// Session is an in-memory draft of one dashboard. Every command is atomic with respect to
// Snapshot; Save is the only operation that calls out.
type Session struct {
	mu sync.Mutex

	id        string
	userID    string
	draft     *dashboard.Dashboard
	persisted *dashboard.Dashboard
	state     State
	lastErr   error
	closed    bool
	touched   time.Time

	persist Persister
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewSession opens a create-mode session on an empty draft.
func NewSession(persist Persister, opts Options) *Session {
	s := newSession(persist, opts)
	s.draft = &dashboard.Dashboard{
		DefaultTimeRange: dashboard.Range30Days,
		Widgets:          []dashboard.Widget{},
	}
	s.state = StateEmpty
	return s
}

// OpenSession opens an edit-mode session on a persisted document.
func OpenSession(doc *dashboard.Dashboard, persist Persister, opts Options) *Session {
	s := newSession(persist, opts)
	s.draft = doc.Copy()
	s.persisted = doc.Copy()
	s.state = StateSaved
	return s
}

func newSession(persist Persister, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		userID:  opts.UserID,
		persist: persist,
		metrics: opts.Metrics,
		logger:  logger.With(zap.String("session_id", id)),
		now:     now,
		touched: now(),
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// AddWidget appends a widget of type t bound to source at the bottom of the layout and
// returns its temporary id.
func (s *Session) AddWidget(t widget.Type, title string, source widget.DataSource) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return "", err
	}

	id := dashboard.NewDraftID()
	if err := compatible(id, t, source); err != nil {
		return "", err
	}

	items := layout.AppendAtBottom(s.draft.Layout(), id, t)
	s.draft.Widgets = append(s.draft.Widgets, dashboard.Widget{
		ID:         id,
		Type:       t,
		Title:      strings.TrimSpace(title),
		DataSource: source,
		Config:     widget.Config{},
		Order:      len(s.draft.Widgets),
	})
	s.draft.ApplyLayout(items)
	s.markDirtyLocked()
	return id, nil
}

// UpdateWidget merges p into the widget with the given id. A type or source change is
// checked for compatibility before anything is applied.
func (s *Session) UpdateWidget(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		return errs.NotFound("widget", id)
	}

	w := s.draft.Widgets[idx]
	if p.Type != nil || p.DataSource != nil {
		t, src := w.Type, w.DataSource
		if p.Type != nil {
			t = *p.Type
		}
		if p.DataSource != nil {
			src = *p.DataSource
		}
		if err := compatible(id, t, src); err != nil {
			return err
		}
		w.Type, w.DataSource = t, src
	}
	if p.Title != nil {
		w.Title = strings.TrimSpace(*p.Title)
	}
	if p.Config != nil {
		w.Config = p.Config.Clone()
	}
	s.draft.Widgets[idx] = w
	s.markDirtyLocked()
	return nil
}

// DeleteWidget removes the widget and closes the gap it leaves in the layout.
func (s *Session) DeleteWidget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		return errs.NotFound("widget", id)
	}
	s.draft.Widgets = append(s.draft.Widgets[:idx], s.draft.Widgets[idx+1:]...)
	s.draft.ApplyLayout(layout.Compact(s.draft.Layout()))
	s.markDirtyLocked()
	return nil
}

// ReorderFromLayout writes grid positions back onto widgets. Order is not touched; it is
// derived again on save.
func (s *Session) ReorderFromLayout(items []layout.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	var problems errs.ValidationErrors
	posted := make(map[string]layout.Item, len(items))
	for _, it := range items {
		if s.indexLocked(it.I) < 0 {
			problems = append(problems, errs.Invalid(it.I, "i", "unknown widget"))
			continue
		}
		posted[it.I] = it
	}
	if len(problems) > 0 {
		return problems
	}

	// widgets missing from the posted layout keep their current rectangle
	merged := s.draft.Layout()
	for i, it := range merged {
		if p, ok := posted[it.I]; ok {
			merged[i] = p
		}
	}
	s.draft.ApplyLayout(layout.Normalize(merged))
	s.markDirtyLocked()
	return nil
}

func (s *Session) UpdateMetadata(m Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	var problems errs.ValidationErrors
	if m.DefaultTimeRange != nil && !m.DefaultTimeRange.Valid() {
		problems = append(problems, errs.Invalid("", "default_time_range", "unknown time range %q", *m.DefaultTimeRange))
	}
	if m.RefreshInterval != nil && *m.RefreshInterval < 0 {
		problems = append(problems, errs.Invalid("", "refresh_interval", "must not be negative"))
	}
	if len(problems) > 0 {
		return problems
	}

	if m.Name != nil {
		s.draft.Name = strings.TrimSpace(*m.Name)
	}
	if m.Description != nil {
		s.draft.Description = *m.Description
	}
	if m.DefaultTimeRange != nil {
		s.draft.DefaultTimeRange = *m.DefaultTimeRange
	}
	if m.RefreshInterval != nil {
		s.draft.RefreshInterval = *m.RefreshInterval
	}
	if m.IsShared != nil {
		s.draft.IsShared = *m.IsShared
	}
	s.markDirtyLocked()
	return nil
}

// Validate reports every problem that would block Save, keyed by widget id.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Validate()
}

// Save persists the whole draft. Only one save runs at a time; a concurrent call gets
// ErrSaveInFlight. On failure the draft is kept as it was and Save may be retried.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errs.ErrSessionClosed
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return nil, errs.ErrSaveInFlight
	}
	s.touched = s.now()
	s.draft.NormalizeOrder()
	if err := s.draft.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	prev := s.state
	s.state = StateSaving
	doc := s.draft.Copy()
	var id string
	if s.persisted != nil {
		id = s.persisted.ID
	}
	s.mu.Unlock()

	var (
		saved *dashboard.Dashboard
		err   error
	)
	if id == "" {
		saved, err = s.persist.Create(ctx, s.userID, doc)
	} else {
		saved, err = s.persist.Update(ctx, s.userID, id, doc)
	}
	if err == nil && saved == nil {
		err = errors.New("persistence returned no document")
	}
	s.metrics.ObserveSave(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateSaveFailed
		s.lastErr = err
		s.logger.Warn("dashboard save failed", zap.String("dashboard_id", id), zap.String("previous_state", string(prev)), zap.Error(err))
		return nil, &errs.SaveError{Err: err}
	}

	ids := make(map[string]string)
	for i, w := range s.draft.Widgets {
		if i < len(saved.Widgets) && dashboard.IsDraftID(w.ID) {
			ids[w.ID] = saved.Widgets[i].ID
		}
	}
	s.draft = saved.Copy()
	s.persisted = saved.Copy()
	s.state = StateSaved
	s.lastErr = nil
	s.logger.Info("dashboard saved", zap.String("dashboard_id", saved.ID), zap.Int("widgets", len(saved.Widgets)))
	return &SaveResult{Dashboard: saved.Copy(), IDs: ids}, nil
}

// Diff lists widget ids added, removed and changed against the last persisted document.
type Diff struct {
	Added           []string `json:"added"`
	Removed         []string `json:"removed"`
	Changed         []string `json:"changed"`
	MetadataChanged bool     `json:"metadata_changed"`
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && !d.MetadataChanged
}

func (s *Session) Diff() Diff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diffLocked()
}

func (s *Session) diffLocked() Diff {
	diff := Diff{Added: []string{}, Removed: []string{}, Changed: []string{}}
	base := s.persisted
	if base == nil {
		base = &dashboard.Dashboard{DefaultTimeRange: dashboard.Range30Days}
	}

	old := make(map[string]dashboard.Widget, len(base.Widgets))
	for _, w := range base.Widgets {
		old[w.ID] = w
	}
	for _, w := range s.draft.Widgets {
		prev, ok := old[w.ID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, w.ID)
		case !sameWidget(prev, w):
			diff.Changed = append(diff.Changed, w.ID)
		}
		delete(old, w.ID)
	}
	for _, w := range base.Widgets {
		if _, gone := old[w.ID]; gone {
			diff.Removed = append(diff.Removed, w.ID)
		}
	}

	diff.MetadataChanged = base.Name != s.draft.Name ||
		base.Description != s.draft.Description ||
		base.DefaultTimeRange != s.draft.DefaultTimeRange ||
		base.RefreshInterval != s.draft.RefreshInterval ||
		base.IsShared != s.draft.IsShared
	return diff
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	ID        string               `json:"id"`
	State     State                `json:"state"`
	Draft     *dashboard.Dashboard `json:"draft"`
	Diff      Diff                 `json:"diff"`
	LastError string               `json:"last_error,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:    s.id,
		State: s.state,
		Draft: s.draft.Copy(),
		Diff:  s.diffLocked(),
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close discards the draft. Later commands fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return 0
	}
	return now.Sub(s.touched)
}

func (s *Session) editableLocked() error {
	if s.closed {
		return errs.ErrSessionClosed
	}
	if s.state == StateSaving {
		return errs.ErrSaveInFlight
	}
	s.touched = s.now()
	return nil
}

func (s *Session) markDirtyLocked() {
	s.state = StateDirty
	if s.persisted == nil && len(s.draft.Widgets) == 0 && s.draft.Name == "" {
		s.state = StateEmpty
	}
}

func (s *Session) indexLocked(id string) int {
	for i, w := range s.draft.Widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func compatible(id string, t widget.Type, source widget.DataSource) error {
	if _, err := widget.ParseType(string(t)); err != nil {
		return errs.ValidationErrors{errs.Invalid(id, "widget_type", "%v", err)}
	}
	if source == "" {
		return errs.ValidationErrors{errs.Invalid(id, "data_source", "data source is required")}
	}
	if !widget.IsCompatible(t, source) {
		return errs.ValidationErrors{errs.Invalid(id, "data_source", "%s is not compatible with %s", source, t)}
	}
	return nil
}

func sameWidget(a, b dashboard.Widget) bool {
	if a.Type != b.Type || a.Title != b.Title || a.DataSource != b.DataSource ||
		a.PositionX != b.PositionX || a.PositionY != b.PositionY ||
		a.Width != b.Width || a.Height != b.Height {
		return false
	}
	if len(a.Config) == 0 && len(b.Config) == 0 {
		return true
	}
	return reflect.DeepEqual(a.Config, b.Config)
}
