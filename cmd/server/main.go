package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"tablesafe.app/concierge/common/id"
	"tablesafe.app/concierge/common/llm"
	"tablesafe.app/concierge/common/logger"
	"tablesafe.app/concierge/common/otel"
	"tablesafe.app/concierge/core/config"
	"tablesafe.app/concierge/internal/http/middleware"
	httprouter "tablesafe.app/concierge/internal/http/router"
	"tablesafe.app/concierge/internal/pipeline"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "concierge starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	orchestrator, err := buildPipeline(cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build pipeline", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, orchestrator)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Write timeout must cover three sequential model calls.
		WriteTimeout: 3*cfg.Pipeline.StageTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func buildPipeline(cfg config.Config) (*pipeline.Orchestrator, error) {
	routerClient, err := newGuardedClient(cfg.RouterLLM, cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	vetterClient, err := newGuardedClient(cfg.VetterLLM, cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	auditorClient, err := newGuardedClient(cfg.AuditorLLM, cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	return pipeline.NewOrchestrator(
		pipeline.NewIntentRouter(routerClient, cfg.RouterLLM),
		pipeline.NewVetter(vetterClient, cfg.VetterLLM, cfg.Pipeline),
		pipeline.NewAuditor(auditorClient, cfg.AuditorLLM, cfg.Pipeline),
		cfg.Pipeline.StageTimeout,
	), nil
}

func newGuardedClient(llmCfg config.LLMConfig, pipeCfg config.PipelineConfig) (llm.Client, error) {
	client, err := llm.New(llm.Config{
		APIKey:  llmCfg.APIKey,
		BaseURL: llmCfg.BaseURL,
		Model:   llmCfg.Model,
	})
	if err != nil {
		return nil, err
	}
	return pipeline.NewGuard(client, pipeCfg), nil
}

func setupRouter(cfg config.Config, orchestrator *pipeline.Orchestrator) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, orchestrator, httprouter.RouterConfig{
		StaticDir: cfg.StaticDir,
	})

	return router
}
