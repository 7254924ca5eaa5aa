package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/paramtrail/paramtrail/internal/auth"
	"github.com/paramtrail/paramtrail/internal/capture"
	"github.com/paramtrail/paramtrail/internal/compare"
	"github.com/paramtrail/paramtrail/internal/config"
	"github.com/paramtrail/paramtrail/internal/db"
	"github.com/paramtrail/paramtrail/internal/ingestion"
	"github.com/paramtrail/paramtrail/internal/middleware"
	"github.com/paramtrail/paramtrail/internal/repository"
	"github.com/paramtrail/paramtrail/internal/viewlog"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	projectRepo := repository.NewProjectRepository(conn.Pool)
	snapshotRepo := repository.NewSnapshotRepository(conn.Pool)
	activationRepo := repository.NewViewActivationRepository(conn.Pool)

	// Create services
	captureService := capture.NewService(projectRepo, snapshotRepo)
	compareService := compare.NewService(snapshotRepo)
	ingestionService := ingestion.NewService(captureService)
	viewlogService := viewlog.NewService(activationRepo, projectRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/captures", capture.NewHTTPHandler(captureService))
	mux.Handle("/api/captures/", capture.NewHTTPHandler(captureService))
	mux.Handle("/api/compare", compare.NewHTTPHandler(compareService, snapshotRepo))
	mux.Handle("/api/compare/", compare.NewHTTPHandler(compareService, snapshotRepo))
	mux.Handle("/api/ingest", ingestion.NewHTTPHandler(ingestionService))
	mux.Handle("/api/view-activations", viewlog.NewHTTPHandler(viewlogService))

	handler := corsHandler.Handler(middleware.LoggingMiddleware(auth.Middleware(mux)))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
