package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gobinath946/project-weaver-sub001/internal/config"
	"github.com/gobinath946/project-weaver-sub001/internal/database"
	"github.com/gobinath946/project-weaver-sub001/internal/handlers"
	"github.com/gobinath946/project-weaver-sub001/internal/logger"
	"github.com/gobinath946/project-weaver-sub001/internal/metrics"
	"github.com/gobinath946/project-weaver-sub001/internal/middleware"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Env, cfg.LogLevel, cfg.ServiceName); err != nil {
		panic(err)
	}
	log := logger.Get()
	defer log.Sync() //nolint:errcheck

	log.Info("starting server", cfg.LogConfig()...)

	if err := database.Connect(cfg); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var presence *redis.Client
	if cfg.RedisAddr != "" {
		presence = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := presence.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, presence tracking disabled", zap.Error(err))
			presence = nil
		}
	}

	hub := relay.NewHub(presence, log)
	go hub.Run(ctx)

	gin.SetMode(cfg.GinMode)
	router := buildRouter(cfg, hub)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("server listening", zap.String("port", cfg.Port))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

func buildRouter(cfg *config.Config, hub *relay.Hub) *gin.Engine {
	db := database.GetDB()

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	notificationService := services.NewNotificationService(db, hub)
	groupService := services.NewProjectGroupService(db, hub)
	projectService := services.NewProjectService(db, hub)
	taskService := services.NewTaskService(db, hub, notificationService)
	bugService := services.NewBugService(db, hub)
	timeLogService := services.NewTimeLogService(db, hub)
	timesheetService := services.NewTimesheetService(db, hub, notificationService)
	milestoneService := services.NewMilestoneService(db, hub)
	commentService := services.NewCommentService(db, hub)

	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewProjectGroupHandler(groupService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	bugHandler := handlers.NewBugHandler(bugService)
	timeLogHandler := handlers.NewTimeLogHandler(timeLogService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWSHandler(hub)
	healthHandler := handlers.NewHealthHandler(db)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
	)

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	manage := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/signup", authHandler.Signup)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/auth/me", requireAuth, authHandler.Me)

		v1.GET("/ws", requireAuth, wsHandler.Connect)
		v1.GET("/presence", requireAuth, wsHandler.Presence)

		authed := v1.Group("", requireAuth)

		groups := authed.Group("/project-groups")
		{
			groups.GET("", groupHandler.List)
			groups.GET("/:id", groupHandler.Get)
			groups.POST("", manage, groupHandler.Create)
			groups.PUT("/:id", manage, groupHandler.Update)
			groups.DELETE("/:id", manage, groupHandler.Delete)
		}

		projects := authed.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", manage, projectHandler.Create)
			projects.PUT("/:id", manage, projectHandler.Update)
			projects.DELETE("/:id", manage, projectHandler.Delete)
		}

		tasks := authed.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.GET("/:id", taskHandler.Get)
			tasks.POST("", taskHandler.Create)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.POST("/:id/assign", taskHandler.Assign)
			tasks.POST("/:id/unassign", taskHandler.Unassign)
		}

		bugs := authed.Group("/bugs")
		{
			bugs.GET("", bugHandler.List)
			bugs.GET("/:id", bugHandler.Get)
			bugs.POST("", bugHandler.Create)
			bugs.PUT("/:id", bugHandler.Update)
			bugs.DELETE("/:id", bugHandler.Delete)
		}

		timeLogs := authed.Group("/time-logs")
		{
			timeLogs.GET("", timeLogHandler.List)
			timeLogs.GET("/:id", timeLogHandler.Get)
			timeLogs.POST("", timeLogHandler.Create)
			timeLogs.PUT("/:id", timeLogHandler.Update)
			timeLogs.DELETE("/:id", timeLogHandler.Delete)
		}

		timesheets := authed.Group("/timesheets")
		{
			timesheets.GET("", timesheetHandler.List)
			timesheets.GET("/:id", timesheetHandler.Get)
			timesheets.POST("", timesheetHandler.Create)
			timesheets.POST("/:id/submit", timesheetHandler.Submit)
			timesheets.POST("/:id/approve", manage, timesheetHandler.Approve)
			timesheets.POST("/:id/reject", manage, timesheetHandler.Reject)
			timesheets.DELETE("/:id", timesheetHandler.Delete)
		}

		milestones := authed.Group("/milestones")
		{
			milestones.GET("", milestoneHandler.List)
			milestones.GET("/:id", milestoneHandler.Get)
			milestones.POST("", manage, milestoneHandler.Create)
			milestones.PUT("/:id", manage, milestoneHandler.Update)
			milestones.DELETE("/:id", manage, milestoneHandler.Delete)
		}

		comments := authed.Group("/comments")
		{
			comments.GET("", commentHandler.List)
			comments.POST("", commentHandler.Create)
			comments.DELETE("/:id", commentHandler.Delete)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}
	}

	return router
}
