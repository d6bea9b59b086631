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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penbridge/claude"
	"penbridge/config"
	"penbridge/handlers"
	"penbridge/metrics"
	"penbridge/routes"
	"penbridge/transcribe"
	"penbridge/upstream"
	"penbridge/wordpress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Server.Release)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting penbridge",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("release", cfg.Server.Release),
		zap.Strings("cors_origins", cfg.Server.CORSOrigins),
	)

	// ===== GIN MODE =====
	if cfg.Server.Release {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// ===== UPSTREAMS =====
	collector := metrics.NewCollector()
	timeout := cfg.Upstream.Timeout

	wp := wordpress.NewClient(
		upstream.NewClient("wordpress", timeout, logger, collector),
		&http.Client{Timeout: timeout},
		logger,
	)

	chat := claude.NewClient(claude.Config{
		APIKey:    cfg.Claude.APIKey,
		BaseURL:   cfg.Claude.BaseURL,
		Model:     cfg.Claude.Model,
		MaxTokens: cfg.Claude.MaxTokens,
	}, upstream.NewClient("claude", timeout, logger, collector), logger)

	transcriber := transcribe.NewService(transcribe.Config{
		APIKey:  cfg.Transcribe.APIKey,
		BaseURL: cfg.Transcribe.BaseURL,
		Model:   cfg.Transcribe.Model,
	}, logger, collector)

	if cfg.Claude.APIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not set, /api/claude will return 500")
	}
	if cfg.Transcribe.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, /api/transcribe will return 500")
	}

	// ===== ROUTER =====
	router := routes.SetupRouter(routes.Deps{
		Handler: handlers.New(handlers.Options{
			Transcriber:    transcriber,
			Chat:           chat,
			WordPress:      wp,
			Logger:         logger,
			MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		}),
		Logger:      logger,
		Metrics:     collector,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newLogger returns a JSON production logger in release mode and a console
// development logger otherwise.
func newLogger(level string, release bool) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if release {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = atomic

	return zcfg.Build()
}
