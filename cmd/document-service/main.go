package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fundflow/fundflow-backend/internal/docintel/classifier"
	"github.com/fundflow/fundflow-backend/internal/docintel/events"
	"github.com/fundflow/fundflow-backend/internal/docintel/extractor"
	"github.com/fundflow/fundflow-backend/internal/docintel/handler"
	"github.com/fundflow/fundflow-backend/internal/docintel/pipeline"
	"github.com/fundflow/fundflow-backend/internal/docintel/repository"
	"github.com/fundflow/fundflow-backend/internal/docintel/service"
	"github.com/fundflow/fundflow-backend/internal/docintel/storage"
	"github.com/fundflow/fundflow-backend/pkg/config"
	"github.com/fundflow/fundflow-backend/pkg/database"
	"github.com/fundflow/fundflow-backend/pkg/httputil"
	"github.com/fundflow/fundflow-backend/pkg/logger"
	"github.com/fundflow/fundflow-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("document-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("document-service", cfg.Server.Environment)
	log.Info().Msg("starting Document Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewDocumentEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	docRepo := repository.NewDocumentRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	// Initialize pipeline
	textStore := storage.NewTextStore(cfg.Processing.TextTTL)
	orchestrator := pipeline.NewOrchestrator(classifier.New(), extractor.New(), recordRepo, textStore, log)

	// Initialize service and handlers
	docService := service.New(docRepo, recordRepo, textStore, orchestrator, publisher, cfg.Processing.MaxTextSize, log)
	docHandler := handler.NewHandler(docService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "document-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		docHandler.Routes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
