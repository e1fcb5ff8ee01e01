// Package response builds the two result shapes every tool returns: an
// indented JSON document on success and a one-line message on failure.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Encode renders v as two-space indented JSON without HTML escaping.
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// JSON returns a successful tool result whose single text content is v encoded as JSON.
func JSON(v any) (*mcp.CallToolResult, error) {
	text, err := Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return Text(text), nil
}

// Text returns a successful tool result carrying text verbatim.
func Text(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Error returns a tool error result reading "Error <doing>: <message>".
func Error(doing, message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error %s: %s", doing, message)}},
	}
}
