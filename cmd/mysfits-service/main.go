// Command mysfits-service serves the mysfits REST API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacentio/mysfits/api"
	"github.com/jacentio/mysfits/internal/awsclient"
	"github.com/jacentio/mysfits/internal/config"
	"github.com/jacentio/mysfits/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mysfits service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := awsclient.NewDynamoDB(ctx, awsclient.Options{
		Region:      cfg.AWSRegion,
		Endpoint:    cfg.DynamoDBEndpoint,
		MaxAttempts: cfg.AWSMaxAttempts,
	})
	if err != nil {
		return err
	}
	s := store.New(client, cfg.StoreConfig())

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(s, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			"addr", server.Addr,
			"table", s.Config().TableName,
		)
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

	logger.Info("shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}
