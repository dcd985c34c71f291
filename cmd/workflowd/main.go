package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	workflow "github.com/goliatone/go-cms-workflow"
	"github.com/goliatone/go-cms-workflow/internal/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("WORKFLOW_CONFIG"), "path to a TOML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("workflowd: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := workflow.LoadConfig(configPath)
	if err != nil {
		return err
	}

	module, err := workflow.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	logger := logging.HTTPLogger(module.Container().LoggerProvider())
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(module, newSessionManager(cfg), logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.listening", "addr", cfg.Server.Addr, "localized", module.Localized())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http.shutdown")
	return srv.Shutdown(shutdownCtx)
}
