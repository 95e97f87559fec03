package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wuta/vocabaudio/internal/bootstrap"
	"github.com/wuta/vocabaudio/internal/config"
	"github.com/wuta/vocabaudio/internal/metrics"
	"github.com/wuta/vocabaudio/internal/server"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "vocabaudio-server",
		Short:         "Pronunciation audio HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", os.Getenv("VOCABAUDIO_CONFIG"), "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: debugMode,
	})))
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	components, err := bootstrap.Build(ctx, cfg, m)
	if err != nil {
		return fmt.Errorf("bootstrap.Build() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error {
		return components.Close()
	})

	handler := server.NewHandler(components.Pipeline, components.Dictionary, server.Options{
		AdminToken:     cfg.Server.AdminToken,
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		Gatherer:       reg,
		Metrics:        m,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		if cfg.Vocabulary.Watch {
			go func() {
				if err := components.WatchCanonical(ctx); err != nil {
					slog.Default().Warn("canonical vocabulary watch stopped", "error", err)
				}
			}()
		}
		if cfg.Server.AdminToken == "" {
			slog.Default().Info("admin API disabled, set VOCABAUDIO_ADMIN_TOKEN to enable it")
		}

		slog.Default().Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
