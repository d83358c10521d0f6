package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/summon-dev/summon/internal/config"
	"github.com/summon-dev/summon/pkg/cache"
)

// loadConfig loads the configuration named by path, which may be a file or
// a project directory. An empty path searches upward from the working
// directory and falls back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			cfg, err := config.LoadFile(path)
			if err != nil {
				return nil, err
			}
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return cfg, cfg.Validate()
		}
		return config.LoadWithEnv(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dir, err := config.FindProjectRoot(wd)
	if err != nil {
		dir = wd
	}
	return config.LoadWithEnv(dir)
}

// newLogger builds the process logger from the log section.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newTracerProvider returns the provider for request and render spans and a
// function that flushes it. When tracing is disabled the global provider is
// returned unchanged.
func newTracerProvider(cfg config.TracingConfig) (trace.TracerProvider, func(context.Context) error) {
	if !cfg.Enabled {
		return otel.GetTracerProvider(), func(context.Context) error { return nil }
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown
}

// openStore opens the render cache backend named by the cache section. It
// returns nil for the "none" backend.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return cache.NewMemoryStore(), nil
	case config.CachePebble:
		store, err := cache.OpenPebble(cfg.CacheDir())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return cache.NewS3Store(s3.NewFromConfig(awsCfg), cfg.Cache.Bucket, cfg.Cache.Prefix), nil
	default:
		return nil, nil
	}
}
