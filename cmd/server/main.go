package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/inference-gateway/internal/analytics"
	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/cli"
	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/gateway"
	"github.com/nulzo/inference-gateway/internal/jobs"
	"github.com/nulzo/inference-gateway/internal/platform/logger"
	"github.com/nulzo/inference-gateway/internal/platform/otel"
	"github.com/nulzo/inference-gateway/internal/server"
	"github.com/nulzo/inference-gateway/internal/version"
	"go.uber.org/zap"

	// provider adapters register themselves with the llm factory
	_ "github.com/nulzo/inference-gateway/internal/llm/ollama"
	_ "github.com/nulzo/inference-gateway/internal/llm/openai"
)

func main() {
	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logging
	log, err := logger.Initialize(logger.FromConfig(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	fmt.Fprintln(os.Stderr, cli.Banner("inference-gateway", version.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	shutdownTracing, err := otel.Setup(ctx, cfg.Tracing, os.Stdout, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// 4. Inference path
	cat := catalog.New()
	registry := gateway.NewRegistry(cfg.Routes, cfg.Gateway.DefaultProvider)
	gateway.BootstrapProviders(ctx, registry, cfg.Providers, log)

	resolver := gateway.NewResolver(cfg.Aliases, cfg.Gateway.CategoryModels)
	dispatcher := gateway.NewDispatcher(registry, gateway.DispatchOptions{
		Timeout:         cfg.Gateway.DispatchTimeout,
		PropagateCancel: cfg.Gateway.PropagateCancel,
	})
	service := gateway.NewService(log, resolver, dispatcher)

	// 5. Jobs
	repo, err := jobs.OpenRepository(cfg.Jobs)
	if err != nil {
		log.Fatal("Failed to open job store", zap.String("store", cfg.Jobs.Store), zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close job store", zap.Error(err))
		}
	}()
	manager := jobs.NewManager(repo, cat, jobs.OptionsFrom(cfg.Jobs), log.Named("jobs"))
	log.Info("Job store ready", zap.String("store", cfg.Jobs.Store))

	// 6. Request log
	ingestor, err := analytics.FromConfig(ctx, cfg.RequestLog, log.Named("request_log"))
	if err != nil {
		log.Fatal("Failed to initialize request log", zap.Error(err))
	}
	// stopped explicitly after the HTTP server drains, not on the signal
	ingestor.Start(context.Background())

	// 7. Release check
	if cfg.UpdateCheck.Enabled {
		go checkForUpdates(ctx, cfg.UpdateCheck, log)
	}

	// 8. HTTP server
	srv := server.New(cfg, log, server.Deps{
		Service:  service,
		Catalog:  cat,
		Jobs:     manager,
		Ingestor: ingestor,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(fmt.Sprintf("%s Inference gateway listening", cli.Arrow()),
			zap.String("addr", httpServer.Addr),
			zap.String("base_path", cfg.Server.BasePath),
			zap.String("version", version.Version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown did not complete", zap.Error(err))
	}
	if err := ingestor.Stop(shutdownCtx); err != nil {
		log.Warn("Request log did not drain before the shutdown deadline", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
}

func checkForUpdates(ctx context.Context, cfg config.UpdateCheckConfig, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	update, err := version.NewChecker(http.DefaultClient, cfg.Repository).Check(ctx)
	if err != nil {
		log.Debug("Release check failed", zap.Error(err))
		return
	}
	if update != nil {
		log.Warn("A newer release is available",
			zap.String("current", update.Current),
			zap.String("latest", update.Latest),
		)
	}
}
