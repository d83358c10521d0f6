package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/summon-dev/summon/internal/config"
	"github.com/summon-dev/summon/internal/demo"
	"github.com/summon-dev/summon/pkg/server"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		port int
		host string
		live bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo pages",
		Long: `Serve the demo pages over HTTP.

Pages are rendered on the server for every request. With --live, the
browser keeps a WebSocket open and events are handled on the server.

Examples:
  summon serve
  summon serve --port=8080 --live
  SUMMON_CACHE_BACKEND=memory summon serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("live") {
				cfg.Server.Live = live
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&live, "live", false, "Enable live WebSocket sessions")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing := newTracerProvider(cfg.Tracing)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithTracerProvider(tp),
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, server.WithCache(store, cfg.CacheTTL()))
	}

	srvCfg := server.Config{
		Address:         cfg.Address(),
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Hydrate:         cfg.Render.Hydrate,
		Pretty:          cfg.Render.Pretty,
		Lang:            cfg.Render.Lang,
		ClientScript:    cfg.Render.ClientScript,
		Live:            cfg.Server.Live,
		MaxSessions:     cfg.Server.MaxSessions,
		Debug:           cfg.Log.Level == "debug",
	}
	if cfg.Metrics.Enabled {
		srvCfg.MetricsPath = cfg.Metrics.Path
	}

	srv := server.New(srvCfg, opts...)
	for _, p := range demo.Pages() {
		srv.Handle(p)
	}

	printBanner(out)
	success(out, "Serving %d pages at %s", len(srv.Pages()), cfg.URL())
	if cfg.Server.Live {
		info(out, "Live sessions enabled")
		if cfg.Server.MaxSessions == 0 {
			warn(out, "Live sessions are unlimited; set server.maxSessions to cap them")
		}
	}
	if cfg.Cache.Backend != config.CacheNone {
		info(out, "Render cache: %s (ttl %s)", cfg.Cache.Backend, cfg.CacheTTL())
	}
	if srvCfg.MetricsPath != "" {
		info(out, "Metrics at %s%s", cfg.URL(), srvCfg.MetricsPath)
	}
	fmt.Fprintln(out)

	return srv.ListenAndServe(ctx)
}
