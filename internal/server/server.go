// Package server contains the HTTP handlers and route wiring for the job board API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "jobboard/docs" // swagger docs
	"jobboard/internal/auth"
	"jobboard/internal/cache"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/featureflags"
	"jobboard/internal/middleware"
	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Per-route abuse limits, enforced through Redis outside development and test.
const (
	registerLimit  = 5
	registerWindow = 10 * time.Minute
	loginLimit     = 10
	loginWindow    = 5 * time.Minute
	resetLimit     = 3
	resetWindow    = 15 * time.Minute
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenIssuer
	featureFlags   *featureflags.Manager
	userRepo       repository.UserRepository
	companyRepo    repository.CompanyRepository
	jobRepo        repository.JobRepository
	appRepo        repository.ApplicationRepository
	savedRepo      repository.SavedJobRepository
	authService    *service.AuthService
	companyService *service.CompanyService
	jobService     *service.JobService
	adminService   *service.AdminService
}

// NewServer connects to the database and Redis and wires every dependency.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests pass an SQLite database and, optionally, a miniredis-backed client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	lifetime, err := cfg.TokenLifetime()
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("jobboard-api"),
		tokens:         auth.NewTokenIssuer(cfg.JWTSecret, lifetime),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags, featureflags.Defaults(cfg.IsProduction())),
		userRepo:       repository.NewUserRepository(db),
		companyRepo:    repository.NewCompanyRepository(db),
		jobRepo:        repository.NewJobRepository(db),
		appRepo:        repository.NewApplicationRepository(db),
		savedRepo:      repository.NewSavedJobRepository(db),
	}

	s.authService = service.NewAuthService(s.userRepo, s.appRepo, s.savedRepo, s.tokens, s.featureFlags,
		cache.RevokeToken, service.AuthSettings{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			ClientURL:     cfg.ClientURL,
		})
	s.companyService = service.NewCompanyService(s.companyRepo, s.jobRepo)
	s.jobService = service.NewJobService(s.jobRepo, s.companyRepo, s.userRepo, s.appRepo, s.savedRepo)
	s.adminService = service.NewAdminService(s.userRepo, s.companyRepo, s.jobRepo, s.appRepo, s.featureFlags)

	return s, nil
}

// NewApp builds a Fiber app with the shared error handler, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Job Board API",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders framework errors (body limits, panics, bad methods) in the standard envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := models.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewError(models.CodeRateLimited, "Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	uploads := s.config.UploadsDir
	if uploads == "" {
		uploads = "uploads"
	}
	app.Static("/uploads", uploads)

	api := app.Group("/api")
	api.Get("/test", s.APITest)
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Job Board API Metrics"}))

	authRequired := s.AuthRequired()
	employerOrAdmin := middleware.RequireRoles(models.RoleEmployer, models.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, registerLimit, registerWindow, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, loginLimit, loginWindow, "login"), s.Login)
	authGroup.Post("/logout", authRequired, s.Logout)
	authGroup.Get("/profile", authRequired, s.GetProfile)
	authGroup.Put("/profile", authRequired, s.UpdateProfile)
	authGroup.Post("/request-password-reset", middleware.RateLimitWithPolicy(s.redis, resetLimit, resetWindow, middleware.FailClosed, "password_reset"), s.RequestPasswordReset)
	authGroup.Post("/reset-password/:token", middleware.RateLimitWithPolicy(s.redis, resetLimit, resetWindow, middleware.FailClosed, "password_reset"), s.ResetPassword)

	// Specific /jobs/<name> routes are registered before /jobs/:id.
	jobs := api.Group("/jobs")
	jobs.Get("/", s.ListJobs)
	jobs.Get("/saved", authRequired, s.ListSavedJobs)
	jobs.Get("/applications", authRequired, s.ListMyApplications)
	jobs.Get("/:id", s.GetJob)
	jobs.Post("/", authRequired, employerOrAdmin, s.CreateJob)
	jobs.Put("/:id", authRequired, employerOrAdmin, s.UpdateJob)
	jobs.Delete("/:id", authRequired, employerOrAdmin, s.DeleteJob)
	jobs.Post("/:id/apply", authRequired, s.ApplyToJob)
	jobs.Post("/:id/save", authRequired, s.ToggleSaveJob)
	jobs.Get("/:id/applications", authRequired, employerOrAdmin, s.ListJobApplications)
	jobs.Put("/:id/applications/:applicationId/status", authRequired, employerOrAdmin, s.UpdateApplicationStatus)

	companies := api.Group("/companies")
	companies.Get("/", s.ListCompanies)
	companies.Get("/:id/jobs", s.ListCompanyJobs)
	companies.Get("/:id", s.GetCompany)
	companies.Post("/", authRequired, s.CreateCompany)
	companies.Put("/:id", authRequired, s.UpdateCompany)
	companies.Delete("/:id", authRequired, s.DeleteCompany)

	admin := api.Group("/admin", authRequired, middleware.AdminRequired())
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/role", s.AdminSetUserRole)
	admin.Put("/users/:id", s.AdminUpdateUser)
	admin.Delete("/users/:id", s.AdminDeleteUser)
	admin.Get("/jobs", s.AdminListJobs)
	admin.Delete("/jobs/:id", s.AdminDeleteJob)
	admin.Get("/companies", s.AdminListCompanies)
	admin.Delete("/companies/:id", s.AdminDeleteCompany)
	admin.Get("/statistics", s.AdminStatistics)
	admin.Get("/stats", s.AdminStats)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	app.Use(s.RouteNotFound)
}

// AuthRequired verifies the bearer token, checks the revocation list and
// loads the caller's current role and active flag.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(middleware.AuthConfig{
		Verifier: s.tokens,
		Lookup:   s.userRepo.GetSession,
		Revoked:  cache.IsTokenRevoked,
	})
}

// APITest handles GET /api/test
// @Summary API smoke test
// @Tags health
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /test [get]
func (s *Server) APITest(c *fiber.Ctx) error {
	return c.JSON(models.Envelope{Success: true, Message: "API is working!"})
}

// RouteNotFound renders the 404 envelope for unmatched routes.
func (s *Server) RouteNotFound(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusNotFound,
		models.NewError(models.CodeRouteNotFound, "Route not found").WithDetails(c.OriginalURL()))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// missing client reports "disabled" without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops the HTTP server and releases the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	cache.Close()

	middleware.Logger.Info("server shutdown complete")
	return nil
}
