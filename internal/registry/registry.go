package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/evert/google-forms-mcp-go/internal/config"
)

// toolNameRE enforces SEP-986: tool names must match ^[a-zA-Z0-9_-]{1,64}$
var toolNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateToolName checks that a tool name complies with SEP-986.
func ValidateToolName(name string) error {
	if !toolNameRE.MatchString(name) {
		return fmt.Errorf("tool name %q does not match SEP-986 pattern ^[a-zA-Z0-9_-]{1,64}$", name)
	}
	return nil
}

// HandlerFor handles one call of a tool whose arguments decode into In.
// Failures are reported inside the returned result, never as a Go error.
type HandlerFor[In any] func(ctx context.Context, input In) *mcp.CallToolResult

type entry struct {
	tool     *mcp.Tool
	dispatch func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error)
	install  func(server *mcp.Server)
}

// Registry maps tool names to their definitions and handlers. It is filled at
// startup and read-only afterwards, so concurrent dispatch needs no locking.
type Registry struct {
	entries map[string]*entry
	order   []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Add registers tool with its handler. It panics if the name is invalid or
// already registered.
func Add[In any](r *Registry, tool *mcp.Tool, handler HandlerFor[In]) {
	if err := ValidateToolName(tool.Name); err != nil {
		panic(err)
	}
	if _, dup := r.entries[tool.Name]; dup {
		panic(fmt.Sprintf("registry: tool %q registered twice", tool.Name))
	}

	r.entries[tool.Name] = &entry{
		tool: tool,
		dispatch: func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
			var input In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &input); err != nil {
					return nil, fmt.Errorf("invalid arguments for tool %q: %w", tool.Name, err)
				}
			}
			return handler(ctx, input), nil
		},
		install: func(server *mcp.Server) {
			mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
				return handler(ctx, input), nil, nil
			})
		},
	}
	r.order = append(r.order, tool.Name)
}

// Dispatch runs the handler registered under name. It returns an error only
// when the tool is unknown or the arguments cannot be decoded.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return e.dispatch(ctx, args)
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []*mcp.Tool {
	tools := make([]*mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Install adds every tool accepted by include to the server. A nil include
// accepts all tools. It returns the names of the installed tools.
func (r *Registry) Install(server *mcp.Server, include func(*mcp.Tool) bool) []string {
	var installed []string
	for _, name := range r.order {
		e := r.entries[name]
		if include != nil && !include(e.tool) {
			slog.Debug("tool filtered out", "tool", name)
			continue
		}
		e.install(server)
		installed = append(installed, name)
	}
	return installed
}

// Filter returns an Install filter applying the tier and read-only settings of cfg.
func Filter(cfg *config.Config, tierMap map[string]config.ToolInfo) func(*mcp.Tool) bool {
	return func(tool *mcp.Tool) bool {
		return ShouldIncludeTool(tool.Name, cfg, tierMap, tool.Annotations)
	}
}

// ShouldIncludeTool checks whether a tool should be registered based on the current config.
func ShouldIncludeTool(toolName string, cfg *config.Config, tierMap map[string]config.ToolInfo, annotations *mcp.ToolAnnotations) bool {
	info, ok := tierMap[toolName]
	if !ok {
		slog.Warn("tool not found in tier config, skipping", "tool", toolName)
		return false
	}

	// Filter by tier level
	if config.TierLevel(info.Tier) > config.TierLevel(cfg.ToolTier) {
		return false
	}

	// Filter by read-only mode: exclude tools that are not read-only
	if cfg.ReadOnly && (annotations == nil || !annotations.ReadOnlyHint) {
		return false
	}

	return true
}
