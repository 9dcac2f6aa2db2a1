package editor

import (
	"context"
	"sync"
	"time"

	"go-lms/internal/common/errs"
	"go-lms/internal/config"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/metrics"
	"go-lms/internal/scheduler"

	"go.uber.org/zap"
)

const reaperJob = "editor-session-reaper"

// Store keeps open editor sessions per user and drops the ones left idle past the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	dashboards dashboard.DashboardService
	ttl        time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewStore(dashboards dashboard.DashboardService, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions:   make(map[string]*Session),
		dashboards: dashboards,
		ttl:        ttl,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// NewSessionStore provides the store to fx and registers the idle reaper.
func NewSessionStore(cfg *config.Config, dashboards dashboard.DashboardService, sched scheduler.Scheduler, m *metrics.Metrics, logger *zap.Logger) (*Store, error) {
	s := NewStore(dashboards, cfg.EditorSessionTTL, m, logger)
	if err := sched.Named(reaperJob, "@every 1m", func() { s.Reap() }); err != nil {
		return nil, err
	}
	return s, nil
}

// Open starts a session. An empty dashboardID opens a create-mode session; otherwise the
// dashboard is loaded and must be owned by the user.
func (s *Store) Open(ctx context.Context, userID, dashboardID string) (*Session, error) {
	opts := Options{UserID: userID, Metrics: s.metrics, Logger: s.logger, Now: s.now}

	var sess *Session
	if dashboardID == "" {
		sess = NewSession(s.dashboards, opts)
	} else {
		doc, err := s.dashboards.Get(ctx, userID, dashboardID)
		if err != nil {
			return nil, err
		}
		if doc.OwnerID != userID {
			return nil, errs.ErrAccessDenied
		}
		sess = OpenSession(doc, s.dashboards, opts)
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetEditorSessions(n)
	return sess, nil
}

// Get returns the user's session. Sessions of other users are reported as missing.
func (s *Store) Get(userID, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || sess.UserID() != userID {
		return nil, errs.NotFound("editor session", id)
	}
	return sess, nil
}

// Discard closes and forgets a session.
func (s *Store) Discard(userID, id string) error {
	sess, err := s.Get(userID, id)
	if err != nil {
		return err
	}
	sess.Close()
	s.remove(id)
	return nil
}

// Reap closes sessions idle for longer than the TTL and returns how many were dropped.
func (s *Store) Reap() int {
	now := s.now()
	s.mu.Lock()
	var stale []*Session
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	s.metrics.SetEditorSessions(n)
	if len(stale) > 0 && s.logger != nil {
		s.logger.Info("reaped idle editor sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetEditorSessions(n)
}
