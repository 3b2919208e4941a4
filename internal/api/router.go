package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tracklight/tracklight/internal/api/handler"
	"github.com/tracklight/tracklight/internal/api/middleware"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
	"github.com/tracklight/tracklight/internal/core/service"
	"github.com/tracklight/tracklight/internal/infrastructure/config"
	mongodb "github.com/tracklight/tracklight/internal/infrastructure/db/mongo"
	redisdb "github.com/tracklight/tracklight/internal/infrastructure/db/redis"
	"github.com/tracklight/tracklight/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The activity service backs the audit-trail read endpoint; the recorder is
// the async dispatcher issue mutations enqueue onto.
func NewRouter(
	db *mongo.Database,
	rdb *goredis.Client,
	cfg *config.Config,
	activity ports.ActivityService,
	recorder service.ActivityRecorder,
) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracklight"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	issueRepo := mongodb.NewIssueRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	counterRepo := mongodb.NewCounterRepository(db)

	roleCache := redisdb.NewRoleCache(rdb, userRepo, log)
	registry := policy.DefaultRegistry()
	evaluator := policy.NewEvaluator(registry)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	issueService := service.NewIssueService(issueRepo, projectRepo, counterRepo, evaluator, recorder, log)
	taskService := service.NewTaskService(taskRepo, evaluator, log)
	projectService := service.NewProjectService(projectRepo, registry, log)
	userService := service.NewUserService(userRepo, roleCache, evaluator, log)

	authHandler := handler.NewAuthHandler(authService)
	issueHandler := handler.NewIssueHandler(issueService, activity)
	taskHandler := handler.NewTaskHandler(taskService)
	projectHandler := handler.NewProjectHandler(projectService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret, roleCache))

	issues := v1.Group("/issues")
	issues.POST("", issueHandler.Create)
	issues.GET("", issueHandler.List)
	issues.GET("/:key", issueHandler.Get)
	issues.PATCH("/:key", issueHandler.Update)
	issues.DELETE("/:key", issueHandler.Delete)
	issues.POST("/:key/subtasks", issueHandler.Attach)
	issues.GET("/:key/activity", issueHandler.Activity)

	tasks := v1.Group("/tasks")
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete, middleware.RequireManagerTier())

	projects := v1.Group("/projects")
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:key", projectHandler.Get)
	projects.POST("/:key/members", projectHandler.AddMember)
	projects.DELETE("/:key/members/:user_id", projectHandler.RemoveMember)

	users := v1.Group("/users")
	users.GET("", userHandler.List, middleware.RequireGlobal(registry, func(g policy.GlobalCapabilities) bool {
		return g.CanViewAllUsers
	}))
	users.PUT("/:id/role", userHandler.ChangeRole, middleware.RequireGlobal(registry, func(g policy.GlobalCapabilities) bool {
		return g.CanManageUsers
	}))

	return e
}
