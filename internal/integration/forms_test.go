//go:build integration

// Package integration contains integration tests that verify full system behavior
// without requiring real Google API credentials.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/evert/google-forms-mcp-go/internal/config"
	"github.com/evert/google-forms-mcp-go/internal/registry"
	"github.com/evert/google-forms-mcp-go/internal/services"
	"github.com/evert/google-forms-mcp-go/internal/tools/forms"
)

// fakeFormsAPI records request bodies and replies with canned JSON per route.
type fakeFormsAPI struct {
	mu     sync.Mutex
	bodies map[string][]string
}

func (f *fakeFormsAPI) record(route string, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[route] = append(f.bodies[route], string(body))
}

func (f *fakeFormsAPI) sent(route string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies[route]...)
}

func (f *fakeFormsAPI) handler() http.Handler {
	mux := http.NewServeMux()
	reply := func(route string, status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.record(route, r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("POST /v1/forms", reply("create", http.StatusOK,
		`{"formId":"stub","info":{"title":"Survey","documentTitle":"Survey"}}`))
	mux.HandleFunc("POST /v1/forms/F1:batchUpdate", reply("batchUpdate", http.StatusOK,
		`{"replies":[{"createItem":{"itemId":"item-1","questionId":["q-1"]}}]}`))
	mux.HandleFunc("GET /v1/forms/F1", reply("get", http.StatusOK,
		`{"formId":"F1","info":{"title":"Survey"},"items":[{"itemId":"item-1","title":"Color?"}]}`))
	mux.HandleFunc("GET /v1/forms/F9", reply("getFuture", http.StatusOK,
		`{"formId":"F9","futureField":{"x":1},"info":{"title":"S"}}`))
	mux.HandleFunc("GET /v1/forms/F1/responses", reply("responses", http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	return mux
}

func connect(t *testing.T, cfg *config.Config) (*mcp.ClientSession, *fakeFormsAPI) {
	t.Helper()
	ctx := context.Background()

	fake := &fakeFormsAPI{bodies: map[string][]string{}}
	api := httptest.NewServer(fake.handler())
	t.Cleanup(api.Close)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"})
	client, err := services.NewForms(ctx, ts, option.WithEndpoint(api.URL+"/"))
	require.NoError(t, err)

	tierMap, err := config.LoadTiers("")
	require.NoError(t, err)

	reg := registry.New()
	forms.Register(reg, client, nil)

	server := mcp.NewServer(&mcp.Implementation{Name: "google-forms-mcp", Version: "1.0.0-test"}, nil)
	reg.Install(server, registry.Filter(cfg, tierMap))

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := mcpClient.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	return cs, fake
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return res, tc.Text
}

func TestListTools(t *testing.T) {
	cs, _ := connect(t, &config.Config{ToolTier: "complete"})

	list, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"create_form",
		"add_text_question",
		"add_multiple_choice_question",
		"get_form",
		"get_form_responses",
	}, names)
}

func TestListTools_ReadOnly(t *testing.T) {
	cs, _ := connect(t, &config.Config{ToolTier: "complete", ReadOnly: true})

	list, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_form", "get_form_responses"}, names)
}

func TestCreateForm(t *testing.T) {
	cs, fake := connect(t, &config.Config{ToolTier: "complete"})

	res, text := callText(t, cs, "create_form", map[string]any{"title": "Survey"})
	require.False(t, res.IsError, text)
	assert.JSONEq(t, `{
		"formId": "stub",
		"title": "Survey",
		"description": "",
		"responderUri": "https://docs.google.com/forms/d/stub/viewform"
	}`, text)

	require.Len(t, fake.sent("create"), 1)
	assert.NotContains(t, fake.sent("create")[0], "description")
}

func TestAddMultipleChoiceQuestion(t *testing.T) {
	cs, fake := connect(t, &config.Config{ToolTier: "complete"})

	res, text := callText(t, cs, "add_multiple_choice_question", map[string]any{
		"formId":        "F1",
		"questionTitle": "Color?",
		"options":       []string{"Red", "Blue"},
	})
	require.False(t, res.IsError, text)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, false, out["required"])
	assert.Equal(t, []any{"Red", "Blue"}, out["options"])

	require.Len(t, fake.sent("batchUpdate"), 1)
	var sent struct {
		Requests []struct {
			CreateItem struct {
				Item struct {
					QuestionItem struct {
						Question struct {
							Required       *bool `json:"required"`
							ChoiceQuestion struct {
								Type    string              `json:"type"`
								Options []map[string]string `json:"options"`
							} `json:"choiceQuestion"`
						} `json:"question"`
					} `json:"questionItem"`
				} `json:"item"`
				Location struct {
					Index *int `json:"index"`
				} `json:"location"`
			} `json:"createItem"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(fake.sent("batchUpdate")[0]), &sent))
	require.Len(t, sent.Requests, 1)
	ci := sent.Requests[0].CreateItem
	require.NotNil(t, ci.Location.Index)
	assert.Equal(t, 0, *ci.Location.Index)
	require.NotNil(t, ci.Item.QuestionItem.Question.Required)
	assert.False(t, *ci.Item.QuestionItem.Question.Required)
	assert.Equal(t, "RADIO", ci.Item.QuestionItem.Question.ChoiceQuestion.Type)
	assert.Equal(t, []map[string]string{{"value": "Red"}, {"value": "Blue"}}, ci.Item.QuestionItem.Question.ChoiceQuestion.Options)
}

func TestGetForm(t *testing.T) {
	cs, _ := connect(t, &config.Config{ToolTier: "complete"})

	res, text := callText(t, cs, "get_form", map[string]any{"formId": "F1"})
	require.False(t, res.IsError, text)
	assert.JSONEq(t, `{"formId":"F1","info":{"title":"Survey"},"items":[{"itemId":"item-1","title":"Color?"}]}`, text)
}

func TestGetForm_KeepsFieldsUnknownToClientLibrary(t *testing.T) {
	cs, _ := connect(t, &config.Config{ToolTier: "complete"})

	res, text := callText(t, cs, "get_form", map[string]any{"formId": "F9"})
	require.False(t, res.IsError, text)
	assert.JSONEq(t, `{"formId":"F9","futureField":{"x":1},"info":{"title":"S"}}`, text)
}

func TestGetFormResponses_QuotaExceeded(t *testing.T) {
	cs, fake := connect(t, &config.Config{ToolTier: "complete"})

	res, text := callText(t, cs, "get_form_responses", map[string]any{"formId": "F1"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error getting form responses: quota exceeded", text)
	assert.Len(t, fake.sent("responses"), 1)
}

func TestMissingRequiredArgument(t *testing.T) {
	cs, fake := connect(t, &config.Config{ToolTier: "complete"})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "add_multiple_choice_question",
		Arguments: map[string]any{"formId": "F1", "questionTitle": "Color?"},
	})
	if err == nil {
		require.NotNil(t, res)
		assert.True(t, res.IsError, "missing options must be rejected")
	}
	assert.Empty(t, fake.sent("batchUpdate"), "handler must not run on invalid arguments")
}
