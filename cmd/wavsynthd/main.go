// This tool serves the render API over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/wavsynth/internal/config"
	"github.com/cwbudde/wavsynth/internal/logging"
	"github.com/cwbudde/wavsynth/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("wavsynthd", flag.ContinueOnError)

	listen := flagSet.String("listen", cfg.Listen, "address to listen on")
	logLevel := flagSet.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	maxBody := flagSet.Int64("max-body", 0, "request body limit in bytes, 0 for the default")
	maxSamples := flagSet.Int("max-samples", cfg.MaxSamples, "frames × channels limit of one render")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logger, err := logging.New(*logLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler: server.New(logger, server.Options{
			MaxDurationSeconds: cfg.MaxDurationSeconds,
			MaxSamples:         *maxSamples,
			MaxBodyBytes:       *maxBody,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		logger.Info("wavsynthd listening", zap.String("addr", ln.Addr().String()))
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
