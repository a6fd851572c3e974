package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/demo-service/internal/config"
	"github.com/aescanero/demo-service/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/demo-service/pkg/api/grpc"
	"github.com/aescanero/demo-service/pkg/api/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run("stdout"))
}

// run wires the service and blocks until a signal or a server failure.
// Logs go to logPath. It returns the process exit code.
func run(logPath string) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck // stdout sync fails on some terminals

	logger.Info("starting demo service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	httpServer := http.NewServer(&http.Config{
		Host:             cfg.HTTPHost,
		Port:             cfg.HTTPPort,
		Version:          Version,
		Registry:         prometheus.NewRegistry(),
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	if err := httpServer.Listen(); err != nil {
		logger.Error("failed to start HTTP server", zap.Error(err))
		return 1
	}

	var grpcServer *grpc.Server
	if addr := cfg.GetGRPCAddr(); addr != "" {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Addr:   addr,
			Logger: logger,
		})
		if err != nil {
			logger.Error("failed to create gRPC server", zap.Error(err))
			return 1
		}
	}

	// Start servers
	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				errCh <- fmt.Errorf("gRPC server failed: %w", err)
			}
		}()
	}

	logger.Info("demo service started",
		zap.String("http_addr", httpServer.Addr()),
		zap.String("grpc_addr", cfg.GetGRPCAddr()))

	// Wait for interrupt signal or a server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		exitCode = 1
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	logger.Info("demo service shut down complete")
	return exitCode
}

// initLogger builds the process logger from the configured level and format.
// Sampling is off: every request's record must reach the output.
func initLogger(level, format, output string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Sampling = nil
	config.OutputPaths = []string{output}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named("demo"), nil
}
