package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/docs"
	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Setup GORM
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	if cfg.DBAutoMigrate || cfg.DBDriver == db.DriverSQLite {
		if err := db.AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
		}
		log.Println("✅ Schema migrated")
	}

	return &Server{
		Engine: NewRouter(cfg, repository.NewStore(gdb), logger),
		DB:     gdb,
		Config: cfg,
		Log:    logger,
	}, nil
}

// NewRouter wires services and handlers over store.
func NewRouter(cfg *config.Config, store repository.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.ZapLogger(logger))

	// Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(store, auth.NewBcryptHasher(bcrypt.DefaultCost), logger.Named("users"))
	projectService := service.NewProjectService(store, logger.Named("projects"))
	taskService := service.NewTaskService(store, logger.Named("tasks"))
	commentService := service.NewCommentService(store, logger.Named("comments"))

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, tokens)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	commentHandler := handler.NewCommentHandler(commentService)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		authorized.GET("/me", userHandler.Me)
		authorized.GET("/users", userHandler.List)
		authorized.PUT("/users/:id", userHandler.UpdateProfile)
		authorized.PUT("/users/:id/password", userHandler.UpdatePassword)
		authorized.PUT("/users/:id/role", userHandler.SetRole)
		authorized.PUT("/users/:id/active", userHandler.SetActive)
		authorized.GET("/users/:id/tasks", taskHandler.ListAssigned)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.List)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/deactivate", projectHandler.Deactivate)
		authorized.POST("/projects/:id/reactivate", projectHandler.Reactivate)
		authorized.POST("/projects/:id/transfer", projectHandler.Transfer)
		authorized.GET("/projects/:id/stats", projectHandler.Stats)

		// Task routes
		authorized.POST("/projects/:id/tasks", taskHandler.Create)
		authorized.GET("/projects/:id/tasks", taskHandler.ListByProject)
		authorized.GET("/projects/:id/tasks/overdue", taskHandler.ListOverdue)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.PUT("/tasks/:id/status", taskHandler.UpdateStatus)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.DELETE("/tasks/:id/assign", taskHandler.Unassign)

		// Comment routes
		authorized.POST("/tasks/:id/comments", commentHandler.Create)
		authorized.GET("/tasks/:id/comments", commentHandler.List)
		authorized.PUT("/comments/:id", commentHandler.Edit)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = s.Log.Sync()
	log.Println("✅ Server exited properly")
}
