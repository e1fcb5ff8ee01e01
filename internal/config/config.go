package config

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all server configuration loaded from environment variables and CLI flags.
type Config struct {
	OAuth struct {
		ClientID     string `env:"GOOGLE_CLIENT_ID, required"`
		ClientSecret string `env:"GOOGLE_CLIENT_SECRET, required"`
		RefreshToken string `env:"GOOGLE_REFRESH_TOKEN, required"`
	}
	Server struct {
		Transport string `env:"MCP_TRANSPORT, default=stdio"`
		Host      string `env:"MCP_HOST, default=0.0.0.0"`
		Port      int    `env:"MCP_PORT, default=8000"`
	}
	ToolTier  string `env:"TOOL_TIER, default=complete"`
	TiersFile string `env:"TOOL_TIERS_FILE"`
	ReadOnly  bool   `env:"READ_ONLY, default=false"`
	Debug     bool   `env:"DEBUG, default=false"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
}

// Load reads configuration from the process environment and the given CLI arguments.
// CLI flags take precedence over environment variables.
func Load(ctx context.Context, args []string) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper(), args)
}

// LoadWith is Load with an explicit environment source.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper, args []string) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	fs := flag.NewFlagSet("google-forms-mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Server.Transport, "transport", cfg.Server.Transport, "Transport mode: stdio or streamable-http")
	fs.IntVar(&cfg.Server.Port, "port", cfg.Server.Port, "HTTP port for streamable-http transport")
	fs.StringVar(&cfg.ToolTier, "tool-tier", cfg.ToolTier, "Load tools by tier: core, extended, or complete")
	fs.BoolVar(&cfg.ReadOnly, "read-only", cfg.ReadOnly, "Register only read-only tools and request read-only scopes")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log tool errors with full detail")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Transport {
	case "stdio", "streamable-http":
	default:
		return fmt.Errorf("unknown transport %q — use 'stdio' or 'streamable-http'", c.Server.Transport)
	}
	if TierLevel(c.ToolTier) == 0 {
		return fmt.Errorf("unknown tool tier %q — use 'core', 'extended' or 'complete'", c.ToolTier)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}
