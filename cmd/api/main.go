package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statadvisor/internal"
	"statadvisor/internal/api"
	"statadvisor/internal/config"
	"statadvisor/internal/container"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env when present; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Database.Enabled() {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set; recommendations are kept in memory only")
	}

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      api.NewServer(appContainer.Advisor, appContainer.Reader, logger).Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	go func() {
		logger.Info("API server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
}
