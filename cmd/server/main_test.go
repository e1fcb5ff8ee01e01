package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	formspb "google.golang.org/api/forms/v1"

	"github.com/evert/google-forms-mcp-go/internal/config"
	"github.com/evert/google-forms-mcp-go/internal/middleware"
	"github.com/evert/google-forms-mcp-go/internal/registry"
	"github.com/evert/google-forms-mcp-go/internal/tools/forms"
	"github.com/evert/google-forms-mcp-go/internal/tools/forms/mocks"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Config
		level slog.Level
	}{
		{"default info", config.Config{LogLevel: "info"}, slog.LevelInfo},
		{"warn", config.Config{LogLevel: "warn"}, slog.LevelWarn},
		{"error", config.Config{LogLevel: "error"}, slog.LevelError},
		{"debug flag wins", config.Config{LogLevel: "error", Debug: true}, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			logger := newLogger(&cfg)
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.level))
			assert.False(t, logger.Enabled(ctx, tt.level-1))
		})
	}
}

func TestNewServer_EndToEnd(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockClient(gomock.NewController(t))
	client.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&formspb.Form{FormId: "stub"}, nil)

	reg := registry.New()
	forms.Register(reg, client, nil)

	promReg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(promReg)
	logger := slog.New(slog.DiscardHandler)

	server := newServer(reg, nil, logger, metrics)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	defer ss.Close()

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "create_form", Arguments: map[string]any{"title": "Survey"}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"formId":"stub","title":"Survey","description":"","responderUri":"https://docs.google.com/forms/d/stub/viewform"}`,
		res.Content[0].(*mcp.TextContent).Text)

	count, err := testutil.GatherAndCount(promReg, "forms_mcp_tool_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
