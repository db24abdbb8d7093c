package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexlens/lexlens/internal/config"
	errwrap "github.com/lexlens/lexlens/internal/errors"
	"github.com/lexlens/lexlens/internal/lexlink"
	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
	"github.com/lexlens/lexlens/internal/observability"
	"github.com/lexlens/lexlens/internal/server"
	"github.com/lexlens/lexlens/internal/server/handlers"
	"github.com/lexlens/lexlens/internal/store"
)

var (
	serverPort int
	serverHost string
)

// ollamaHealthChecker pings the backend model listing endpoint
type ollamaHealthChecker struct {
	client *ollama.Client
}

func (o ollamaHealthChecker) CheckHealth(ctx context.Context) error {
	_, err := o.client.ListModels(ctx)
	if err != nil {
		return errwrap.NewExternalServiceError("ollama backend unreachable: " + err.Error())
	}
	return nil
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// identityHealthChecker validates app identity metadata
type identityHealthChecker struct {
	binaryName string
	envPrefix  string
	configName string
}

func (i identityHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case i.binaryName == "":
		return errwrap.NewConfigInvalidError("app identity missing binary name")
	case i.envPrefix == "":
		return errwrap.NewConfigInvalidError("app identity missing env prefix")
	case i.configName == "":
		return errwrap.NewConfigInvalidError("app identity missing config name")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP analysis server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server streams analysis fragments as NDJSON on POST /v1/analyze.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		// Get app identity for telemetry namespace
		identity := GetAppIdentity()
		namespace := identity.TelemetryNamespace()

		// Initialize server logger with namespace
		observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, namespace)

		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}

		// Initialize metrics with namespace
		if err := observability.InitMetrics(identity.BinaryName, metricsPort, namespace); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics",
				zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", identity.BinaryName),
			zap.String("namespace", namespace),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Int("metrics_port", metricsPort),
			zap.String("backend", cfg.Ollama.Host),
			zap.String("strategy", cfg.Interpreter.Strategy))

		backendClient := ollama.NewClient(cfg.Ollama.Host)
		backendClient.Timeout = cfg.Ollama.Timeout

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("ollama", ollamaHealthChecker{client: backendClient})
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		hm.RegisterChecker("app_identity", identityHealthChecker{
			binaryName: identity.BinaryName,
			envPrefix:  identity.EnvPrefix,
			configName: identity.ConfigName,
		})

		// Optional transcript store
		var transcriptStore *store.Store
		if cfg.Store.Enabled {
			st, err := store.Open(cmd.Context(), cfg.Store)
			if err != nil {
				return errwrap.WrapDatabaseError(cmd.Context(), err, "transcript store open failed")
			}
			if err := st.Migrate(cmd.Context()); err != nil {
				_ = st.Close()
				return errwrap.WrapDatabaseError(cmd.Context(), err, "transcript store migration failed")
			}
			transcriptStore = st
			hm.RegisterChecker("store", transcriptStore)
			handlers.SetTranscriptSink(func(ctx context.Context, record handlers.AnalyzeRecord) {
				err := transcriptStore.Record(ctx, store.Transcript{
					RequestID:     record.RequestID,
					Question:      record.Question,
					Model:         record.Model,
					ImageCount:    record.ImageCount,
					FragmentCount: record.FragmentCount,
					Response:      record.Response,
				})
				if err != nil {
					observability.ServerLogger.Warn("Failed to record transcript", zap.Error(err))
				}
			})
			observability.ServerLogger.Info("Transcript store enabled",
				zap.String("driver", transcriptStore.Driver()))
		}

		// Per-request pipeline construction honoring option overrides
		handlers.SetPipelineFactory(func(opts handlers.AnalyzeOptions) (*lexlink.Pipeline, string, error) {
			return buildPipeline(cfg, pipelineOverrides{
				Host:           opts.Host,
				VisionModel:    opts.VisionModel,
				ReasoningModel: opts.ReasoningModel,
				Temperature:    opts.Temperature,
			}, observability.ServerLogger)
		})

		// Create server
		srv := server.New(server.Options{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		})

		// Set app identity for handlers
		handlers.SetAppIdentity(identity)

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close transcript store
		if transcriptStore != nil {
			signals.OnShutdown(func(ctx context.Context) error {
				observability.ServerLogger.Info("Closing transcript store...")
				return transcriptStore.Close()
			})
		}

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			if _, err := config.Load(viper.GetViper()); err != nil {
				observability.ServerLogger.Error("Reloaded config failed validation", zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
