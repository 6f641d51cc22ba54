package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/glintlabs/glint/config"
	"github.com/glintlabs/glint/errors"
	"github.com/glintlabs/glint/extract"
	"github.com/glintlabs/glint/server"
	"github.com/glintlabs/glint/server/handlers"
	"github.com/glintlabs/glint/server/metrics"
	"github.com/glintlabs/glint/server/routing"
	"github.com/glintlabs/glint/server/upstream"
	"github.com/glintlabs/glint/server/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile = flag.String("config", "glint.yaml", "Path to configuration file")
	validate   = flag.Bool("validate", false, "Validate configuration and exit")
	version    = flag.Bool("version", false, "Print version and exit")
)

const Version = "v0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("glint %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *validate {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	errors.SetLogger(logger)

	// Watch the config file so model names and limits pick up edits without
	// a restart. Handlers read the current config per request.
	watcher, err := config.NewConfigWatcher(*configFile, logger)
	if err != nil {
		logger.Fatal("Failed to watch config file", zap.Error(err))
	}
	defer func() { _ = watcher.Close() }()

	tokens, err := validation.NewTokenCounter()
	if err != nil {
		logger.Fatal("Failed to initialize token counter", zap.Error(err))
	}

	client := upstream.NewClient(cfg.Upstream, logger)
	breaker := upstream.NewBreaker(client, cfg.Upstream.CircuitBreaker, logger)

	m := metrics.NewMetrics()
	handler := handlers.NewHandler(breaker, extract.New(logger), watcher, tokens, m, logger)
	router := routing.NewRouter(handler, m, logger)
	srv := server.NewServer(cfg.Server, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	logger.Info("Starting glint",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
	)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// newLogger builds a zap logger from the logging section of the config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
