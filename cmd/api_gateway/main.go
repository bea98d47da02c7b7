package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ridloal/product-catalog/internal/gateway"
	"github.com/ridloal/product-catalog/internal/platform/config"
	"github.com/ridloal/product-catalog/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error("API Gateway stopped with error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	logger.Info("Starting API Gateway on port %s", cfg.ListenPort)

	handler, err := gateway.NewHandler(cfg.CatalogServiceURL)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.ListenPort,
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("API Gateway listening on :%s", cfg.ListenPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API Gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
