package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/newswire/newswire-go/internal/config"
	"github.com/newswire/newswire-go/internal/handler"
	"github.com/newswire/newswire-go/internal/middleware"
	"github.com/newswire/newswire-go/internal/repository"
	"github.com/newswire/newswire-go/internal/service"
	"github.com/newswire/newswire-go/internal/session"
	"github.com/newswire/newswire-go/internal/upload"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// run owns all resources so error paths unwind through the defers instead of
// exiting mid-flight.
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer db.Close()

	uploads, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return fmt.Errorf("upload store init: %w", err)
	}

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.Env == "production")

	userRepo := repository.NewUserRepository(db)
	authService, err := service.NewAuthService(userRepo, sessions)
	if err != nil {
		return fmt.Errorf("auth service init: %w", err)
	}
	authHandler := handler.NewAuthHandler(authService, sessions)

	postRepo := repository.NewPostRepository(db)
	postService := service.NewPostService(postRepo)
	postHandler := handler.NewPostHandler(postService, uploads, cfg.MaxUploadBytes)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// The frontend lives on a separate origin and sends the session cookie,
	// so CORS must allow credentials for exactly that origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	r.Post("/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions))
		r.Get("/profile", authHandler.HandleProfile)
	})

	r.Post("/post", postHandler.HandleCreatePost)
	r.Get("/post", postHandler.HandleListPosts)
	r.Get("/post/{id}", postHandler.HandleGetPost)

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploads.Dir()))))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
