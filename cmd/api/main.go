package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-lms/internal/common/api"
	"go-lms/internal/config"
	"go-lms/internal/database"
	"go-lms/internal/features/analytics"
	"go-lms/internal/features/audit"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/editor"
	"go-lms/internal/features/runtime"
	"go-lms/internal/features/system"
	"go-lms/internal/features/widget"
	"go-lms/internal/logger"
	"go-lms/internal/metrics"
	"go-lms/internal/middleware"
	"go-lms/internal/scheduler"

	_ "go-lms/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, dashboardRepo dashboard.DashboardRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := dashboardRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("failed to ensure dashboard indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// @title           Dashboards API
// @version         1.0
// @description     Configurable analytics dashboards: widget catalogue, editor sessions and live viewers.

// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Databases
			database.NewDatabase,
			database.NewWarehouse,

			// Infrastructure
			metrics.NewMetrics,
			scheduler.NewScheduler,
			analytics.NewProvider,

			// Initialize Repository
			audit.NewAuditRepository,
			dashboard.NewDashboardRepository,

			// Initialize Service
			audit.NewAuditService,
			dashboard.NewDashboardService,
			editor.NewSessionStore,
			runtime.NewViewerService,

			// Initialize Controller
			audit.NewAuditController,
			dashboard.NewDashboardController,
			editor.NewEditorController,
			runtime.NewViewerController,
			runtime.NewLiveController,
			system.NewDebugController,
			system.NewHealthController,

			// Initialize API Routes
			AsRoute(widget.NewWidgetTypeApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(editor.NewEditorApi),
			AsRoute(runtime.NewViewerApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
		),
	)

	app.Run()
}
