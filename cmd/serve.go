package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tickdone/internal/config"
	"github.com/teemow/tickdone/internal/instrumentation"
	"github.com/teemow/tickdone/internal/logging"
	"github.com/teemow/tickdone/internal/server"
	"github.com/teemow/tickdone/internal/ticktick"
	"github.com/teemow/tickdone/internal/tools/project_tools"
	"github.com/teemow/tickdone/internal/tools/tag_tools"
	"github.com/teemow/tickdone/internal/tools/task_tools"
	"github.com/teemow/tickdone/internal/tools/user_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

type serveOptions struct {
	debugMode            bool
	transport            string
	httpAddr             string
	yolo                 bool
	disableStreaming     bool
	totpCode             string
	sessionCheckInterval time.Duration
	metrics              MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide TickTick task
management tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (task creation, deletion, etc.)

Authentication:
  The server signs on with the account credentials at startup:
    TICKTICK_USERNAME and TICKTICK_PASSWORD env vars (required)
    TICKTICK_DEVICE_ID env var to pin the device identity across restarts
    TICKTICK_DOMAIN env var to select ticktick.com (default) or dida365.com

  Accounts with two-factor authentication additionally need a fresh TOTP
  code at startup: --totp-code flag or TICKTICK_TOTP_CODE env var. The
  session is kept alive in the background afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.totpCode == "" {
				opts.totpCode = os.Getenv("TICKTICK_TOTP_CODE")
			}
			loadMetricsEnvVars(cmd, &opts.metrics)
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (task creation, deletion, etc.). Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&opts.totpCode, "totp-code", "", "Two-factor authentication code for sign-on. Can also use TICKTICK_TOTP_CODE env var.")
	cmd.Flags().DurationVar(&opts.sessionCheckInterval, "session-check-interval", server.DefaultSessionCheckInterval, "How often to verify the TickTick session in the background")

	// Metrics server flags
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnvVars loads metrics server configuration from environment
// variables. Environment variables only apply when the flag was not
// explicitly set.
func loadMetricsEnvVars(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if os.Getenv("METRICS_ENABLED") == "false" {
			config.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

// setupLogging configures the default logger. Logs go to stderr so the
// stdio transport keeps stdout clean for the protocol.
func setupLogging(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogging(opts.debugMode)

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", logging.Err(err))
			}
		}()
	}
	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
	}()

	// Create the client and sign on before any tool is served
	clientOpts := append(cfg.ClientOptions(), ticktick.WithLogger(slog.Default()))
	client := ticktick.NewClient(clientOpts...)

	if err := signOn(shutdownCtx, client, cfg, opts.totpCode, provider); err != nil {
		return err
	}
	defer func() {
		if provider.Enabled() {
			provider.Metrics().DecrementActiveSessions(context.Background())
		}
	}()

	serverContext := server.NewServerContext(shutdownCtx, client)
	serverContext.SetUsername(cfg.Username)
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// Keep the session alive for the lifetime of the server
	keeper := server.NewSessionKeeper(client, cfg.Username, cfg.Password, opts.sessionCheckInterval, slog.Default())
	if provider.Enabled() {
		keeper.SetMetrics(provider.Metrics())
	}
	keeper.Start(shutdownCtx)
	defer keeper.Stop()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("tickdone", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.yolo
	if readOnly {
		slog.Info("starting server in read-only mode (use --yolo to enable write operations)")
	} else {
		slog.Info("starting server with write operations enabled")
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

// signOn authenticates the client with the configured credentials, handling
// accounts that require a two-factor code.
func signOn(ctx context.Context, client *ticktick.Client, cfg *config.Config, totpCode string, provider *instrumentation.Provider) error {
	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	handler := client.SessionHandler()
	_, err := handler.Authenticate(ctx, cfg.Username, cfg.Password)
	if ticktick.IsTwoFactorRequired(err) {
		if metrics != nil {
			metrics.RecordSignon(ctx, instrumentation.SessionResultTwoFactor)
		}
		if totpCode == "" {
			return fmt.Errorf("account requires a two-factor code: pass --totp-code or set TICKTICK_TOTP_CODE")
		}
		slog.Info("two-factor code required, verifying")
		_, err = handler.Authenticate2FA(ctx, handler.AuthID(), totpCode)
	}
	if err != nil {
		if metrics != nil {
			metrics.RecordSignon(ctx, instrumentation.SessionResultFailure)
		}
		return fmt.Errorf("sign-on failed: %w", err)
	}

	if metrics != nil {
		metrics.RecordSignon(ctx, instrumentation.SessionResultSuccess)
		metrics.IncrementActiveSessions(ctx)
	}
	slog.Info("signed on", logging.UserHash(cfg.Username))
	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Tasks",
			register: func() error {
				return task_tools.RegisterTaskTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Projects",
			register: func() error {
				return project_tools.RegisterProjectTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Tags",
			register: func() error {
				return tag_tools.RegisterTagTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "User",
			register: func() error {
				return user_tools.RegisterUserTools(mcpSrv, ctx, readOnly)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, provider *instrumentation.Provider, opts serveOptions) error {
	httpServer := server.NewHTTPServer(mcpSrv, opts.disableStreaming)

	// Set up health checker for health check endpoints
	healthChecker := server.NewHealthChecker(serverContext)
	httpServer.SetHealthChecker(healthChecker)

	// Set up HTTP instrumentation for metrics
	if provider.Enabled() {
		httpServer.SetMetrics(provider.Metrics())
	}

	slog.Info("streamable HTTP server starting",
		"addr", opts.httpAddr,
		"mcp_endpoint", "/mcp",
		"health_endpoints", "/healthz, /readyz")
	if opts.metrics.Enabled {
		slog.Info("metrics endpoint available", "addr", opts.metrics.Addr+"/metrics")
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(opts.httpAddr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server stopped")
	return nil
}
