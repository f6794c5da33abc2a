package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChaseRain/lpgen/internal/api"
	"github.com/ChaseRain/lpgen/internal/infra/config"
	"github.com/ChaseRain/lpgen/internal/infra/httpclient"
	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/ChaseRain/lpgen/internal/service/copywriter"
	"github.com/ChaseRain/lpgen/internal/service/llm"
	"github.com/ChaseRain/lpgen/internal/service/vision"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Init HTTP client
	httpClient := httpclient.New(httpclient.Options{
		Timeout: time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second,
	})

	// Init provider
	provider, err := llm.New(llm.Options{
		Name:       cfg.Provider.Name,
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		log.Fatalf("failed to init provider: %v", err)
	}

	strategy, err := copywriter.ParseStrategy(cfg.Generation.Strategy)
	if err != nil {
		log.Fatalf("invalid generation strategy: %v", err)
	}

	// Init services
	analyzer := vision.New(provider, cfg.Vision.Model, cfg.Vision.MaxTokens, zapLogger)
	generator := copywriter.New(provider, copywriter.Options{
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
		Strategy:    strategy,
		StrictParse: cfg.Generation.StrictParse,
	}, zapLogger)

	// Init router
	handler := api.NewHandler(analyzer, generator, zapLogger)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowOrigins:   cfg.CORS.AllowOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}, zapLogger)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Start server
	go func() {
		zapLogger.Info("starting server",
			"addr", cfg.Server.Addr,
			"provider", provider.Name(),
			"vision_model", cfg.Vision.Model,
			"generation_model", cfg.Generation.Model,
			"strategy", strategy,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", "error", err)
	}
	zapLogger.Info("server stopped")
}
