package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/jortega/finance-engine/internal/config"
	"github.com/jortega/finance-engine/internal/engine"
	"github.com/jortega/finance-engine/internal/gateway/postgres"
	"github.com/jortega/finance-engine/internal/handler"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	store := postgres.NewStore(db)
	eng := engine.New(store, logger, engine.Config{
		RecurringWindowMonths:   cfg.RecurringWindowMonths,
		RecurringMinOccurrences: cfg.RecurringMinOccurrences,
		TrailingMonths:          cfg.TrailingMonths,
		StressModerateMonths:    cfg.StressModerateMonths,
		StressHighMonths:        cfg.StressHighMonths,
	})
	h := handler.NewHandler(eng, logger)

	// Setup router
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
