package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type stores struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tasks    repository.TaskRepository
	db       *gorm.DB
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.StoreBackend != config.StoreSQLite {
		return &stores{
			users:    repository.NewMemoryUserRepository(),
			sessions: repository.NewMemorySessionRepository(),
			tasks:    repository.NewMemoryTaskRepository(),
		}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return &stores{
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
		tasks:    repository.NewTaskRepository(db),
		db:       db,
	}, nil
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	log.Info().
		Str("service", cfg.ServiceName).
		Str("port", cfg.Port).
		Str("store", cfg.StoreBackend).
		Str("hasher", cfg.PasswordHasher).
		Msg("Service starting")

	var tp *sdktrace.TracerProvider
	if cfg.TracingEnabled {
		var err error
		tp, err = middleware.InitTracing(context.Background(), cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			log.Info().
				Str("endpoint", cfg.TracingEndpoint).
				Float64("sample_rate", cfg.TracingSampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	st, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}

	hasher, err := services.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create password hasher")
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(services.AIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	} else {
		log.Info().Msg("AI task generation disabled (OPENAI_API_KEY not set)")
	}

	authService := services.NewAuthService(st.users, hasher)
	sessionService := services.NewSessionService(st.sessions, authService)
	taskService := services.NewTaskService(st.tasks, aiService)

	health := handlers.NewHealthHandler()
	router := &handlers.Router{
		Auth:     handlers.NewAuthHandler(authService, sessionService),
		Tasks:    handlers.NewTaskHandler(taskService),
		Health:   health,
		Resolver: sessionService,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TracingMiddleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.PrometheusMiddleware())
	router.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting task tracker API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first so load balancers stop routing here.
	health.MarkShuttingDown()
	if cfg.ReadinessDrainDelay > 0 {
		log.Info().Dur("delay", cfg.ReadinessDrainDelay).Msg("Readiness drain delay started")
		time.Sleep(cfg.ReadinessDrainDelay)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	if st.db != nil {
		if sqlDB, err := st.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("Database close error")
			}
		}
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
