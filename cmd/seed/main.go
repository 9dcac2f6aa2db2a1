package main

import (
	"context"
	"log"
	"os"

	"go-lms/internal/config"
	"go-lms/internal/database"
	"go-lms/internal/features/audit"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/widget"
	"go-lms/internal/logger"
	"go-lms/internal/middleware"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// platformOverview is the stock dashboard every new workspace starts with.
func platformOverview() *dashboard.Dashboard {
	w := func(t widget.Type, title string, src widget.DataSource, x, y, width, height int, cfg widget.Config) dashboard.Widget {
		return dashboard.Widget{
			Type: t, Title: title, DataSource: src, Config: cfg,
			PositionX: x, PositionY: y, Width: width, Height: height,
		}
	}
	return &dashboard.Dashboard{
		Name:             "Platform Overview",
		Description:      "Users, enrolments and course activity across the platform",
		IsDefault:        true,
		IsShared:         true,
		DefaultTimeRange: dashboard.Range30Days,
		RefreshInterval:  300,
		Widgets: []dashboard.Widget{
			w(widget.TypeStatCard, "Active Users", widget.SourceActiveUsers, 0, 0, 3, 2, widget.Config{"format": "number", "showTrend": true}),
			w(widget.TypeStatCard, "Enrollments", widget.SourceEnrollmentStats, 3, 0, 3, 2, widget.Config{"format": "number", "showTrend": true}),
			w(widget.TypeProgressRing, "Completion Rate", widget.SourceCompletionRates, 6, 0, 3, 3, widget.Config{"target": 100}),
			w(widget.TypeStatCard, "Course Count", widget.SourceCourseMetrics, 9, 0, 3, 2, nil),
			w(widget.TypeLineChart, "User Growth", widget.SourceUserGrowth, 0, 3, 6, 4, widget.Config{"smooth": true}),
			w(widget.TypeBarChart, "Peak Usage", widget.SourcePeakUsage, 6, 3, 6, 4, nil),
			w(widget.TypePieChart, "Devices", widget.SourceDeviceUsage, 0, 7, 4, 4, nil),
			w(widget.TypeLeaderboard, "Popular Courses", widget.SourcePopularCourses, 4, 7, 4, 4, widget.Config{"limit": 5}),
			w(widget.TypeTable, "Recent Activity", widget.SourceRecentActivity, 0, 11, 12, 4, widget.Config{"pageSize": 10}),
		},
	}
}

// Seed creates the overview dashboard for the seed owner unless one of that name exists.
func Seed(lc fx.Lifecycle, dashboards dashboard.DashboardService, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				owner := os.Getenv("SEED_OWNER_ID")
				if owner == "" {
					owner = middleware.DevUserID
				}
				ctx := context.Background()

				existing, err := dashboards.List(ctx, owner, dashboard.ListFilter{})
				if err != nil {
					logger.Error("listing dashboards failed", zap.Error(err))
					return
				}
				doc := platformOverview()
				for _, d := range existing {
					if d.OwnerID == owner && d.Name == doc.Name {
						logger.Info("overview dashboard already present", zap.String("dashboard_id", d.ID))
						return
					}
				}

				created, err := dashboards.Create(ctx, owner, doc)
				if err != nil {
					logger.Error("seeding overview dashboard failed", zap.Error(err))
					return
				}
				logger.Info("seeded overview dashboard",
					zap.String("dashboard_id", created.ID),
					zap.Int("widgets", len(created.Widgets)))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			audit.NewAuditRepository,
			audit.NewAuditService,
			dashboard.NewDashboardRepository,
			dashboard.NewDashboardService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
