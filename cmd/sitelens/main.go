// Package main wires together the sitelens analysis service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/api"
	"github.com/Luigi-p-git/sitelens/internal/capture"
	"github.com/Luigi-p-git/sitelens/internal/clock/system"
	"github.com/Luigi-p-git/sitelens/internal/config"
	idgen "github.com/Luigi-p-git/sitelens/internal/id/uuid"
	"github.com/Luigi-p-git/sitelens/internal/logging"
	"github.com/Luigi-p-git/sitelens/internal/metrics"
	"github.com/Luigi-p-git/sitelens/internal/orchestrator"
	"github.com/Luigi-p-git/sitelens/internal/progress"
	"github.com/Luigi-p-git/sitelens/internal/progress/sinks"
	"github.com/Luigi-p-git/sitelens/internal/relay"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	oneShotURL := flag.String("url", "", "analyze a single URL, print JSON, and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	pipeline, cleanup, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if *oneShotURL != "" {
		return runOnce(pipeline, cfg, *oneShotURL)
	}
	return serve(pipeline, cfg, logger)
}

// buildPipeline assembles the full dependency graph. The returned cleanup
// closes the renderer and flushes the progress hub.
func buildPipeline(cfg config.Config, logger *zap.Logger) (*orchestrator.Pipeline, func(), error) {
	promSink, err := sinks.NewPrometheusSink(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build prometheus sink: %w", err)
	}
	hub := progress.NewHub(
		progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		promSink,
	)

	var direct relay.DirectClient
	if cfg.Fetch.DirectEnabled {
		df, err := relay.NewDirectFetcher(cfg.Fetch, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build direct fetcher: %w", err)
		}
		direct = df
	}

	var renderer capture.Renderer
	var rendererClose func()
	if cfg.Render.Enabled {
		cr, err := capture.NewChromedpRenderer(cfg.Render, cfg.Fetch.UserAgent, logger)
		switch {
		case err == nil:
			renderer = cr
			rendererClose = func() { _ = cr.Close(context.Background()) }
		case errors.Is(err, capture.ErrRendererDisabled):
		default:
			logger.Warn("renderer unavailable, capture falls through to synthesis", zap.Error(err))
		}
	}

	pipeline := orchestrator.New(
		relay.NewSelector(cfg.Fetch.DirectEnabled, cfg.Fetch.DirectTimeout()),
		relay.NewChainFetcher(cfg.Fetch, direct, logger),
		capture.NewChain(
			capture.NewExternalCapturer(cfg.Capture, nil, logger),
			renderer,
			cfg.Capture.MinImageBytes,
			logger,
		),
		idgen.NewUUIDGenerator(),
		system.New(),
		hub,
		logger,
	)

	cleanup := func() {
		if rendererClose != nil {
			rendererClose()
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hub.Close(closeCtx)
	}
	return pipeline, cleanup, nil
}

// runOnce executes a single analysis, streaming progress to stderr and the
// result JSON to stdout.
func runOnce(pipeline *orchestrator.Pipeline, cfg config.Config, rawURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.RequestTimeout)*time.Second)
	defer cancel()

	result, err := pipeline.Analyze(ctx, rawURL, func(step, total int, message string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", step, total, message)
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serve(pipeline *orchestrator.Pipeline, cfg config.Config, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(pipeline, cfg, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
