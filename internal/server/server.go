package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Anthanoess/task-app/docs"
	"github.com/Anthanoess/task-app/internal/auth"
	"github.com/Anthanoess/task-app/internal/config"
	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/middleware"
	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/notify"
	"github.com/Anthanoess/task-app/internal/service"
)

type Server struct {
	Engine *gin.Engine
	Config *config.Config

	logger   *slog.Logger
	backend  *Backend
	notifier *notify.Dispatcher
}

// Init opens the configured store and builds the server around it.
func Init(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var (
		backend *Backend
		err     error
	)
	switch cfg.StoreDriver {
	case config.DriverMongo:
		backend, err = openMongo(ctx, cfg, logger)
	default:
		backend, err = openPostgres(cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	s, err := New(ctx, cfg, backend, newSender(cfg, logger), logger)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}
	return s, nil
}

// New wires services, handlers and routes over an already opened backend.
func New(ctx context.Context, cfg *config.Config, backend *Backend, sender notify.Sender, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := notify.NewDispatcher(sender, cfg.NotifyWorkers, cfg.NotifyQueue, logger.With("component", "notify"))
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)

	userService := service.NewUserService(backend.Users, tokens)
	sprintService := service.NewSprintService(backend.Sprints, backend.Flags, logger.With("component", "sprints"))
	taskService := service.NewTaskService(backend.Tasks, backend.Users, sprintService, dispatcher, logger.With("component", "tasks"))

	if err := seedManager(ctx, userService, cfg.SeedManager, logger); err != nil {
		_ = dispatcher.Close(ctx)
		return nil, err
	}

	s := &Server{
		Config:   cfg,
		logger:   logger,
		backend:  backend,
		notifier: dispatcher,
	}
	s.Engine = s.routes(
		tokens,
		handler.NewUserHandler(userService, logger),
		handler.NewSprintHandler(sprintService, logger),
		handler.NewTaskHandler(taskService, logger),
	)
	return s, nil
}

func (s *Server) routes(tokens *auth.Tokens, users *handler.UserHandler, sprints *handler.SprintHandler, tasks *handler.TaskHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{s.Config.FrontendURL},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Public routes
	r.GET("/healthz", s.health)
	r.POST("/login", users.Login)
	r.POST("/register", users.Register)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/users", users.List)

		authorized.GET("/tasks", tasks.List)
		authorized.POST("/tasks", tasks.Create)
		authorized.POST("/tasks/batch-update", tasks.BatchUpdate)
		authorized.PUT("/tasks/:id", tasks.Update)
		authorized.DELETE("/tasks/:id", tasks.Delete)

		authorized.GET("/sprints", sprints.List)
		authorized.POST("/sprints", middleware.RequireRole(model.RoleManager, "Only managers can create sprints"), sprints.Create)
		authorized.PUT("/sprints/:id", middleware.RequireRole(model.RoleManager, "Only managers can update sprints"), sprints.Update)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	if s.backend.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.backend.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until SIGINT or SIGTERM, then drains requests and queued notifications.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server running", slog.String("port", s.Config.ServerPort), slog.String("store", s.Config.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.Close(shutdownCtx)
	s.logger.Info("server exited properly")
	return nil
}

// Close flushes pending notifications and releases the store.
func (s *Server) Close(ctx context.Context) {
	if err := s.notifier.Close(ctx); err != nil {
		s.logger.Warn("notifications not drained", slog.String("error", err.Error()))
	}
	if err := s.backend.Close(ctx); err != nil {
		s.logger.Warn("close store", slog.String("error", err.Error()))
	}
}

func newSender(cfg *config.Config, logger *slog.Logger) notify.Sender {
	if cfg.SMTPHost == "" {
		logger.Info("SMTP_HOST not set, notifications are logged only")
		return notify.LogSender{Logger: logger.With("component", "mail")}
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
}

func seedManager(ctx context.Context, users *service.UserService, seed config.SeedUser, logger *slog.Logger) error {
	if seed.Username == "" {
		return nil
	}

	email := seed.Email
	if email == "" {
		email = seed.Username + "@taskboard.local"
	}
	user, created, err := users.EnsureUser(ctx, service.RegisterInput{
		Username: seed.Username,
		Email:    email,
		Password: seed.Password,
		Role:     model.RoleManager,
	})
	if err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}

	if created {
		logger.Info("manager account created", slog.String("username", user.Username))
	} else if user != nil && user.Role != model.RoleManager {
		logger.Warn("seed username belongs to a non-manager account", slog.String("username", user.Username))
	}
	return nil
}
