package forms

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/evert/google-forms-mcp-go/internal/pkg/ptr"
	"github.com/evert/google-forms-mcp-go/internal/registry"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/forms_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// Register adds the Forms tools to reg. Every handler shares client. logger
// receives failure diagnostics; pass nil to discard them.
func Register(reg *registry.Registry, client Client, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry.Add(reg, &mcp.Tool{
		Name:        "create_form",
		Title:       "Create Form",
		Icons:       serviceIcons,
		Description: "Create a new Google Form with a title and optional description. Returns the form ID and the responder URL.",
		InputSchema: inputSchema[CreateFormInput](nil),
		Annotations: &mcp.ToolAnnotations{
			Title:           "Create Form",
			DestructiveHint: ptr.Bool(false),
			OpenWorldHint:   ptr.Bool(true),
		},
	}, createCreateFormHandler(client, logger))

	registry.Add(reg, &mcp.Tool{
		Name:        "add_text_question",
		Title:       "Add Text Question",
		Icons:       serviceIcons,
		Description: "Add a short-answer text question to a Google Form. The question is inserted at the top of the form.",
		InputSchema: inputSchema[AddTextQuestionInput](defaultNotRequired),
		Annotations: &mcp.ToolAnnotations{
			Title:           "Add Text Question",
			DestructiveHint: ptr.Bool(false),
			OpenWorldHint:   ptr.Bool(true),
		},
	}, createAddTextQuestionHandler(client, logger))

	registry.Add(reg, &mcp.Tool{
		Name:        "add_multiple_choice_question",
		Title:       "Add Multiple Choice Question",
		Icons:       serviceIcons,
		Description: "Add a single-select multiple choice question to a Google Form. The question is inserted at the top of the form.",
		InputSchema: inputSchema[AddMultipleChoiceQuestionInput](func(s *jsonschema.Schema) {
			defaultNotRequired(s)
			opts := s.Properties["options"]
			opts.Type = "array"
			opts.Types = nil
			opts.MinItems = ptr.Int(1)
		}),
		Annotations: &mcp.ToolAnnotations{
			Title:           "Add Multiple Choice Question",
			DestructiveHint: ptr.Bool(false),
			OpenWorldHint:   ptr.Bool(true),
		},
	}, createAddMultipleChoiceQuestionHandler(client, logger))

	registry.Add(reg, &mcp.Tool{
		Name:        "get_form",
		Title:       "Get Form",
		Icons:       serviceIcons,
		Description: "Get a Google Form including its settings and all items, as returned by the Forms API.",
		InputSchema: inputSchema[FormRefInput](nil),
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Form",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}, createGetFormHandler(client, logger))

	registry.Add(reg, &mcp.Tool{
		Name:        "get_form_responses",
		Title:       "Get Form Responses",
		Icons:       serviceIcons,
		Description: "Get the responses submitted to a Google Form, as returned by the Forms API.",
		InputSchema: inputSchema[FormRefInput](nil),
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Form Responses",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}, createGetFormResponsesHandler(client, logger))
}

// inputSchema infers the JSON schema of In and lets customize adjust it.
func inputSchema[In any](customize func(*jsonschema.Schema)) *jsonschema.Schema {
	s, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("forms: inferring input schema: %v", err))
	}
	if customize != nil {
		customize(s)
	}
	return s
}

func defaultNotRequired(s *jsonschema.Schema) {
	s.Properties["required"].Default = json.RawMessage("false")
}
