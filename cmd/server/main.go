package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ccisvision/vision/internal/auth"
	"github.com/ccisvision/vision/internal/chatbot"
	"github.com/ccisvision/vision/internal/config"
	"github.com/ccisvision/vision/internal/db"
	"github.com/ccisvision/vision/internal/export"
	"github.com/ccisvision/vision/internal/importer"
	"github.com/ccisvision/vision/internal/middleware"
	"github.com/ccisvision/vision/internal/repository"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
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
	if err := db.RunMigrations(cfg.Database, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create store and services
	store := repository.NewStore(conn.Pool)
	importService := importer.NewService(store)

	kbEntries, err := chatbot.LoadEntries(cfg.Server.ChatbotKBPath)
	if err != nil {
		log.Fatalf("Failed to load chatbot knowledge base: %v", err)
	}
	matcher := chatbot.NewMatcher(kbEntries)

	// Mount routes
	mux := http.NewServeMux()
	importer.NewHTTPHandler(importService, cfg.Server.MaxUploadBytes).Register(mux)
	export.NewHTTPHandler(export.NewService(store)).Register(mux)
	chatbot.NewHTTPHandler(matcher).Register(mux)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := corsHandler.Handler(
		middleware.LoggingMiddleware(auth.Middleware(mux)),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting import server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
