package middleware

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for tool call metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeToolErr  = "tool_error"
	OutcomeProtoErr = "protocol_error"
)

// Metrics counts tool calls by tool name and outcome.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the tool call collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forms_mcp",
			Name:      "tool_calls_total",
			Help:      "Number of tools/call requests by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forms_mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Latency of tools/call requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// Middleware returns MCP SDK middleware recording every tools/call request.
func (m *Metrics) Middleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			tool := toolName(req)
			start := time.Now()
			result, err := next(ctx, method, req)
			m.duration.WithLabelValues(tool).Observe(time.Since(start).Seconds())

			outcome := OutcomeSuccess
			switch {
			case err != nil:
				outcome = OutcomeProtoErr
			case isToolError(result):
				outcome = OutcomeToolErr
			}
			m.calls.WithLabelValues(tool, outcome).Inc()

			return result, err
		}
	}
}
