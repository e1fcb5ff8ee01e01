package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evert/google-forms-mcp-go/internal/auth"
	"github.com/evert/google-forms-mcp-go/internal/config"
	"github.com/evert/google-forms-mcp-go/internal/middleware"
	"github.com/evert/google-forms-mcp-go/internal/registry"
	"github.com/evert/google-forms-mcp-go/internal/services"
	"github.com/evert/google-forms-mcp-go/internal/tools/forms"
)

const (
	serverName    = "google-forms-mcp"
	serverVersion = "1.0.0"
)

func main() {
	// Structured logging to stderr (stdout is reserved for MCP stdio transport)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, os.Args[1:]); err != nil {
		cancel()
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(ctx, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Tool handlers only log failure details when debugging is on.
	diag := slog.New(slog.DiscardHandler)
	if cfg.Debug {
		diag = logger.With("component", "forms")
	}

	tierMap, err := config.LoadTiers(cfg.TiersFile)
	if err != nil {
		return fmt.Errorf("loading tool tiers: %w", err)
	}

	// The token source and the Forms client live for the whole process.
	oauthMgr := auth.NewOAuthManager(
		cfg.OAuth.ClientID,
		cfg.OAuth.ClientSecret,
		cfg.OAuth.RefreshToken,
		auth.Scopes(cfg.ReadOnly),
	)
	tokenSource := oauthMgr.TokenSource(context.Background())
	if err := auth.Verify(tokenSource); err != nil {
		return fmt.Errorf("verifying Google credentials: %w", err)
	}

	client, err := services.NewForms(ctx, tokenSource)
	if err != nil {
		return err
	}

	reg := registry.New()
	forms.Register(reg, client, diag)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(promReg)

	server := newServer(reg, registry.Filter(cfg, tierMap), logger, metrics)

	slog.Info("starting Google Forms MCP server",
		"transport", cfg.Server.Transport,
		"tier", cfg.ToolTier,
		"readOnly", cfg.ReadOnly,
		"debug", cfg.Debug,
	)

	switch cfg.Server.Transport {
	case "stdio":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			return fmt.Errorf("stdio server error: %w", err)
		}

	case "streamable-http":
		mcpHandler := mcp.NewStreamableHTTPHandler(
			func(r *http.Request) *mcp.Server { return server },
			nil,
		)

		mux := http.NewServeMux()
		mux.Handle("/mcp", mcpHandler)
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			slog.Info("shutting down HTTP server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
			}
		}()

		slog.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}

	default:
		return fmt.Errorf("unknown transport %q — use 'stdio' or 'streamable-http'", cfg.Server.Transport)
	}

	return nil
}

// newServer creates the MCP server, wires middleware and installs the tools
// accepted by include.
func newServer(reg *registry.Registry, include func(*mcp.Tool) bool, logger *slog.Logger, metrics *middleware.Metrics) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	server.AddReceivingMiddleware(
		middleware.LoggingMiddleware(logger),
		metrics.Middleware(),
	)

	installed := reg.Install(server, include)
	slog.Info("registered tools", "count", len(installed), "tools", installed)
	return server
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
