package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/devpath-labs/devpath/internal/ai"
	"github.com/devpath-labs/devpath/internal/assistant"
	"github.com/devpath-labs/devpath/internal/auth"
	"github.com/devpath-labs/devpath/internal/course"
	"github.com/devpath-labs/devpath/internal/platform/cache"
	"github.com/devpath-labs/devpath/internal/platform/config"
	"github.com/devpath-labs/devpath/internal/platform/database"
	"github.com/devpath-labs/devpath/internal/question"
	"github.com/devpath-labs/devpath/internal/server"
	"github.com/devpath-labs/devpath/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	st, ready, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	courses := course.NewRepository(st)
	questions := question.NewRepository(st)

	authSvc := auth.NewService(st, auth.WithSessionTTL(time.Duration(cfg.Auth.SessionTTL)*time.Hour))
	if err := authSvc.Bootstrap(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		slog.Error("failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}

	opts := []server.Option{}
	if ready != nil {
		opts = append(opts, server.WithReadyCheck(ready))
	}
	if engine := buildAssistant(cfg); engine != nil {
		opts = append(opts, server.WithAssistant(engine))
	}

	srv := server.NewServer(courses, questions, authSvc, opts...)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "store", cfg.Store.Backend)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := parseLogLevel(cfg.Level)
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openStore builds the configured key-value store backend. It returns the
// store, an optional readiness check, and a cleanup function for the
// underlying connection.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(context.Context) error, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewRedisStore(c.Client), c.HealthCheck, func() { c.Close() }, nil

	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, nil, err
		}
		st, err := store.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return st, db.HealthCheck, db.Close, nil

	default:
		return store.NewMemoryStore(), nil, func() {}, nil
	}
}

// buildAssistant wires the AI assistant when a provider is configured.
// Without one the server still runs; the assistant endpoints report
// unavailable.
func buildAssistant(cfg *config.Config) *assistant.Engine {
	if !cfg.HasAIProvider() {
		slog.Info("no AI provider configured, assistant disabled")
		return nil
	}

	router := ai.NewRouter()
	router.Register("google", ai.NewGoogleProvider(cfg.AI.Google.APIKey))

	budget := ai.NewInMemoryBudget()
	budget.SetDefaultBudget(cfg.Assistant.TokenBudget)

	return assistant.NewEngine(assistant.Config{
		Router:    router,
		Events:    assistant.NewMemoryEventLogger(),
		Budget:    budget,
		Model:     cfg.AI.Google.Model,
		MaxTokens: cfg.Assistant.MaxTokens,
	})
}
