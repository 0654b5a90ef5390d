package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmpps/licence-management-api/internal/router"
	"github.com/hmpps/licence-management-api/internal/system/config"
	"github.com/hmpps/licence-management-api/internal/system/database"
	"github.com/hmpps/licence-management-api/internal/system/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the deployment configuration directory")
	flag.Parse()

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Server"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Any("error", err))
	}
	config.SetGlobal(cfg)
	log.SetLevel(cfg.Logging.Level)

	db, err := database.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Any("error", err))
	}
	defer db.Close()

	if err := db.HealthCheck(); err != nil {
		logger.Fatal("Database is not reachable", log.Any("error", err))
	}

	engine, err := router.SetupRouter(cfg)
	if err != nil {
		logger.Fatal("Failed to set up router", log.Any("error", err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Licence management service listening", log.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", log.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
}
