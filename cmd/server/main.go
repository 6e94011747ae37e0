package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agenthands/influence/internal/config"
	"github.com/agenthands/influence/internal/core"
	"github.com/agenthands/influence/internal/driver"
	"github.com/agenthands/influence/internal/logging"
	"github.com/agenthands/influence/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logging.New()
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using defaults")
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	logging.SetLevel(cfg.Log.Level)
	if logging.Level() != logging.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	d, err := driver.NewFileDriver(cfg.Data.Dir, cfg.Catalog.Workers, log)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	engine := core.NewEngine(d, log, cfg.Graph)
	srv := server.NewServer(engine, cfg, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Serving %s on port %s", cfg.Data.Dir, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		log.Info("Shutting down")
		return multierr.Combine(httpServer.Shutdown(shutdownCtx), d.Close(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
