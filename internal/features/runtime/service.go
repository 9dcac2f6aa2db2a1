package runtime

import (
	"context"
	"time"

	"go-lms/internal/config"
	"go-lms/internal/features/analytics"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/internal/scheduler"
	"go-lms/pkg/utils"

	"go.uber.org/zap"
)

// Query is the viewer context requested by a client.
type Query struct {
	TimeRange  dashboard.TimeRange
	TenantID   string
	Breakpoint layout.Breakpoint
}

type ViewerService interface {
	// Data fetches every widget once and returns the rendered view.
	Data(ctx context.Context, user *utils.UserClaims, id string, q Query) (*View, error)
	// Export renders the dashboard data as an xlsx workbook.
	Export(ctx context.Context, user *utils.UserClaims, id string, q Query) ([]byte, string, error)
	// Mount starts a live runtime for the dashboard. The caller must Close it.
	Mount(ctx context.Context, user *utils.UserClaims, id string, q Query, platform Platform, onChange func()) (*Runtime, error)
}

type ViewerServiceImpl struct {
	Dashboards dashboard.DashboardService
	Provider   analytics.Provider
	Scheduler  scheduler.Scheduler
	Timeout    time.Duration
	Logger     *zap.Logger
	now        func() time.Time
}

func NewViewerService(dashboards dashboard.DashboardService, provider analytics.Provider, sched scheduler.Scheduler, cfg *config.Config, logger *zap.Logger) ViewerService {
	return &ViewerServiceImpl{
		Dashboards: dashboards,
		Provider:   provider,
		Scheduler:  sched,
		Timeout:    cfg.FetchTimeout,
		Logger:     logger,
		now:        time.Now,
	}
}

func (s *ViewerServiceImpl) Data(ctx context.Context, user *utils.UserClaims, id string, q Query) (*View, error) {
	rt, err := s.mount(ctx, user, id, q, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	rt.Wait()
	view := rt.Snapshot(breakpoint(q.Breakpoint))
	return &view, nil
}

func (s *ViewerServiceImpl) Export(ctx context.Context, user *utils.UserClaims, id string, q Query) ([]byte, string, error) {
	view, err := s.Data(ctx, user, id, q)
	if err != nil {
		return nil, "", err
	}
	return exportWorkbook(view, s.now())
}

func (s *ViewerServiceImpl) Mount(ctx context.Context, user *utils.UserClaims, id string, q Query, platform Platform, onChange func()) (*Runtime, error) {
	return s.mount(ctx, user, id, q, s.Scheduler, platform, onChange)
}

func (s *ViewerServiceImpl) mount(ctx context.Context, user *utils.UserClaims, id string, q Query, sched scheduler.Scheduler, platform Platform, onChange func()) (*Runtime, error) {
	doc, err := s.Dashboards.Get(ctx, user.UserID, id)
	if err != nil {
		return nil, err
	}
	return New(doc, s.Provider, sched, platform, Options{
		TimeRange: q.TimeRange,
		TenantID:  TenantFor(user, q.TenantID),
		Timeout:   s.Timeout,
		Logger:    s.Logger,
		OnChange:  onChange,
	}), nil
}

// TenantFor resolves the tenant a viewer may see. Only admins can look at another tenant;
// everyone else is pinned to the tenant in their token.
func TenantFor(user *utils.UserClaims, requested string) string {
	if requested != "" && user.IsAdmin() {
		return requested
	}
	return user.TenantID
}

func breakpoint(bp layout.Breakpoint) layout.Breakpoint {
	if bp == "" {
		return layout.LG
	}
	return bp
}
