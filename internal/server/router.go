// Package server assembles the HTTP router.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/config"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/security"
	"github.com/yukikurage/project-management-api/internal/services"
	"gorm.io/gorm"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 16 << 10

var errRouteNotFound = apierrors.NotFound("Route not found")

// Deps are the collaborators the router is built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *logrus.Logger
	Metrics *metrics.Registry
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	hasher := security.NewBcryptHasher(cfg.SaltRounds)
	tokens := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     security.ExpiryOrDefault(cfg.AccessTokenExpiry, security.DefaultAccessTTL),
		RefreshTTL:    security.ExpiryOrDefault(cfg.RefreshTokenExpiry, security.DefaultRefreshTTL),
	})

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB, hasher)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	// Services
	sessionService := services.NewSessionService(userRepo, tokens, deps.Logger)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	// Handlers
	cookies := handlers.NewCookiePolicy(cfg.IsProduction(), tokens.AccessTTL(), tokens.RefreshTTL())
	authHandler := handlers.NewAuthHandler(sessionService, cookies, deps.Metrics)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.ErrorHandler(deps.Logger, cfg.IsDevelopment()),
		gin.CustomRecovery(middleware.RecoverPanic),
		middleware.CORS(cfg.CORSOrigin),
		middleware.BodyLimit(MaxBodyBytes),
	)

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(errRouteNotFound)
	})

	requireAuth := middleware.RequireAuth(sessionService)

	r.GET("/healthcheck", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	user := r.Group("/user")
	{
		user.POST("/register", authHandler.Register)
		user.POST("/login", authHandler.Login)
		user.POST("/refresh", authHandler.Refresh)
		user.GET("/me", requireAuth, authHandler.Me)
		user.POST("/logout", requireAuth, authHandler.Logout)
	}

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:id", projectHandler.GetProject)

		projects.POST("/:id/tasks", taskHandler.CreateTask)
		projects.GET("/:id/tasks", taskHandler.ListTasks)
		projects.PATCH("/:id/tasks/:taskId", taskHandler.UpdateTask)
		projects.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)
	}

	return r
}
