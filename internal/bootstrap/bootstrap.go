package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/backend/memory"
	"github.com/yigit/cuetclass/internal/app/backend/postgres"
	"github.com/yigit/cuetclass/internal/app/backend/rest"
	appControllers "github.com/yigit/cuetclass/internal/app/controllers"
	appMigrations "github.com/yigit/cuetclass/internal/app/migrations"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/app/reveal"
	appRoutes "github.com/yigit/cuetclass/internal/app/routes"
	"github.com/yigit/cuetclass/internal/config"
	"github.com/yigit/cuetclass/internal/db"
	appMiddleware "github.com/yigit/cuetclass/internal/middleware"
	"github.com/yigit/cuetclass/internal/pkg/auth"
	"github.com/yigit/cuetclass/internal/pkg/helpers"
	"github.com/yigit/cuetclass/internal/pkg/logger"
	"github.com/yigit/cuetclass/internal/pkg/metrics"
	"github.com/yigit/cuetclass/internal/pkg/websocket"
	"github.com/yigit/cuetclass/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Backend              backend.Backend
	Mailbox              *notify.Mailbox
	Hub                  *websocket.Hub
	Metrics              *metrics.Metrics
	Pages                *appControllers.Pages
	HomeController       *appControllers.HomeController
	DashboardController  *appControllers.DashboardController
	DepartmentController *appControllers.DepartmentController
	CourseController     *appControllers.CourseController
	ClassController      *appControllers.ClassController
	StudentController    *appControllers.StudentController
	TeacherController    *appControllers.TeacherController
	StudentAdmin         *appControllers.UserController
	TeacherAdmin         *appControllers.UserController
	CRController         *appControllers.RepresentativeController
	BulkUpload           *appControllers.BulkUploadController
	WSHandler            *websocket.Handler
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// IsDevelopment reports whether the server runs in development mode
func IsDevelopment(cfg *config.Config) bool {
	return strings.ToLower(cfg.Server.Mode) != "production"
}

// SetupDatabase establishes the database connection, runs migrations and
// loads the demo data in development mode.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if IsDevelopment(cfg) {
		if err := seed.CreateDefaultData(ctx, dbPool, memory.DefaultSeed(), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupBackend selects the backend adapter. The returned pool is nil unless
// the postgres adapter is used.
func SetupBackend(cfg *config.Config, lgr zerolog.Logger) (backend.Backend, *pgxpool.Pool, error) {
	mode := strings.ToLower(cfg.Backend.Mode)
	lgr.Info().Str("mode", mode).Msg("Configuring backend")

	switch mode {
	case config.BackendREST:
		timeout := helpers.ParseDuration(cfg.Backend.Timeout, 10*time.Second)
		return rest.NewClient(cfg.Backend.BaseURL, timeout, logger.WithComponent(lgr, "rest")), nil, nil
	case config.BackendPostgres:
		pool, err := SetupDatabase(cfg, lgr)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(pool), pool, nil
	case config.BackendMemory:
		return memory.New(memory.DefaultSeed()), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
}

// devViewers stand in for the gateway identity in development mode
func devViewers(cfg *config.Config) map[models.RoleType]string {
	if !IsDevelopment(cfg) {
		return nil
	}
	return map[models.RoleType]string{
		models.RoleAdmin:   "admin-1",
		models.RoleStudent: "student-1",
		models.RoleTeacher: "teacher-1",
	}
}

// BuildDependencies initializes the notification plumbing and the page controllers.
func BuildDependencies(cfg *config.Config, be backend.Backend, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Backend: be, Logger: lgr}

	deps.Mailbox = notify.NewMailbox()
	deps.Hub = websocket.NewHub(logger.WithComponent(lgr, "websocket"))
	deps.Metrics = metrics.New(deps.Hub.Connections)
	deps.Pages = appControllers.NewPages(deps.Mailbox, deps.Hub, lgr, deps.Metrics.Notifier())

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(cfg.Server.SessionKey, !IsDevelopment(cfg), devViewers(cfg))
	if cfg.Auth.JWTSecret != "" {
		deps.AuthMiddleware.WithTokens(auth.NewJWTService(auth.JWTConfig{
			SecretKey:   cfg.Auth.JWTSecret,
			TokenIssuer: cfg.Auth.Issuer,
		}), cfg.Auth.TokenCookie)
		lgr.Info().Str("issuer", cfg.Auth.Issuer).Msg("Viewer identity read from signed tokens")
	}

	deps.HomeController = appControllers.NewHomeController(deps.Pages, cfg.UI.HeroThreshold)
	deps.DashboardController = appControllers.NewDashboardController(deps.Pages, be)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.Pages, be, be)
	deps.CourseController = appControllers.NewCourseController(deps.Pages, be, be)
	deps.ClassController = appControllers.NewClassController(deps.Pages, be, be)
	deps.StudentController = appControllers.NewStudentController(deps.Pages, be)
	deps.TeacherController = appControllers.NewTeacherController(deps.Pages, be, be)
	deps.StudentAdmin = appControllers.NewUserController(deps.Pages, models.RoleStudent, be, be)
	deps.TeacherAdmin = appControllers.NewUserController(deps.Pages, models.RoleTeacher, be, be)
	deps.CRController = appControllers.NewRepresentativeController(deps.Pages, be, be)
	deps.BulkUpload = appControllers.NewBulkUploadController(deps.Pages, be)

	hero := deps.HomeController.Hero()
	offset := cfg.UI.RevealOffset
	deps.WSHandler = websocket.NewHandler(deps.Hub, appMiddleware.SessionTopic, func() *reveal.Page {
		page := reveal.NewPage(offset)
		hero.Observe(page.Observer, func(id string) {
			lgr.Debug().Str("id", id).Msg("Hero element revealed")
		})
		return page
	}, lgr)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if IsDevelopment(cfg) {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	} else {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		lgr,
		deps.Metrics,
		deps.Pages,
		deps.HomeController,
		deps.DashboardController,
		deps.DepartmentController,
		deps.CourseController,
		deps.ClassController,
		deps.StudentController,
		deps.TeacherController,
		deps.StudentAdmin,
		deps.TeacherAdmin,
		deps.CRController,
		deps.BulkUpload,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}

// Handler wraps the router with form token checks when a key is configured
func Handler(cfg *config.Config, router http.Handler, lgr zerolog.Logger) http.Handler {
	if cfg.Server.CSRFKey == "" {
		lgr.Warn().Msg("CSRF protection disabled: no csrf_key configured")
		return router
	}
	return appMiddleware.CSRF([]byte(cfg.Server.CSRFKey), !IsDevelopment(cfg))(router)
}
