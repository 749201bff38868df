package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/taskline/taskline-go/internal/config"
	"github.com/taskline/taskline-go/internal/handler"
	"github.com/taskline/taskline-go/internal/middleware"
	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
	"github.com/taskline/taskline-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokenService)
	taskService := service.NewTaskService(taskRepo, userRepo)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokenService, userRepo))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)
	})

	r.Route("/api/v1/tasks", func(r chi.Router) {
		read := middleware.Authenticate(tokenService, userRepo, model.PermissionGetTasks)
		manage := middleware.Authenticate(tokenService, userRepo, model.PermissionManageTasks)

		r.With(manage).Post("/", taskHandler.HandleCreateTask)
		r.With(read).Get("/", taskHandler.HandleListTasks)
		r.With(read).Get("/{taskID}", taskHandler.HandleGetTask)
		r.With(manage).Patch("/{taskID}", taskHandler.HandleUpdateTask)
		r.With(manage).Delete("/{taskID}", taskHandler.HandleDeleteTask)
		r.With(manage).Patch("/{taskID}/assign", taskHandler.HandleAssignTask)
		r.With(manage).Patch("/{taskID}/status", taskHandler.HandleUpdateTaskStatus)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
