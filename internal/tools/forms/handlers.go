package forms

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/evert/google-forms-mcp-go/internal/middleware"
	"github.com/evert/google-forms-mcp-go/internal/pkg/response"
	"github.com/evert/google-forms-mcp-go/internal/registry"
)

// Messages echoed by the add-question tools on success.
const (
	TextQuestionAddedMessage   = "Text question added successfully"
	ChoiceQuestionAddedMessage = "Multiple choice question added successfully"
)

// --- create_form ---

type CreateFormInput struct {
	Title       string `json:"title" jsonschema:"Title of the new form"`
	Description string `json:"description,omitempty" jsonschema:"Form description shown to respondents"`
}

type CreateFormOutput struct {
	FormID       string `json:"formId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ResponderURI string `json:"responderUri"`
}

func createCreateFormHandler(client Client, logger *slog.Logger) registry.HandlerFor[CreateFormInput] {
	const doing = "creating form"
	return func(ctx context.Context, input CreateFormInput) *mcp.CallToolResult {
		created, err := client.Create(ctx, BuildCreateFormRequest(input.Title, input.Description))
		if err != nil {
			return failure(ctx, logger, doing, err)
		}

		return success(ctx, logger, doing, CreateFormOutput{
			FormID:       created.FormId,
			Title:        input.Title,
			Description:  input.Description,
			ResponderURI: ResponderURI(created.FormId),
		})
	}
}

// --- add_text_question ---

type AddTextQuestionInput struct {
	FormID        string `json:"formId" jsonschema:"The Google Form ID"`
	QuestionTitle string `json:"questionTitle" jsonschema:"Question text shown to respondents"`
	Required      bool   `json:"required,omitempty" jsonschema:"Whether an answer is required"`
}

type TextQuestionOutput struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	QuestionTitle string `json:"questionTitle"`
	Required      bool   `json:"required"`
}

func createAddTextQuestionHandler(client Client, logger *slog.Logger) registry.HandlerFor[AddTextQuestionInput] {
	const doing = "adding text question"
	return func(ctx context.Context, input AddTextQuestionInput) *mcp.CallToolResult {
		req := BuildAddQuestionRequest(QuestionItem{
			Title:    input.QuestionTitle,
			Required: input.Required,
			Kind:     TextQuestion,
		})

		// The batch update reply is not reported back; only the request is echoed.
		if _, err := client.BatchUpdate(ctx, input.FormID, req); err != nil {
			return failure(ctx, logger, doing, err)
		}

		return success(ctx, logger, doing, TextQuestionOutput{
			Success:       true,
			Message:       TextQuestionAddedMessage,
			QuestionTitle: input.QuestionTitle,
			Required:      input.Required,
		})
	}
}

// --- add_multiple_choice_question ---

type AddMultipleChoiceQuestionInput struct {
	FormID        string   `json:"formId" jsonschema:"The Google Form ID"`
	QuestionTitle string   `json:"questionTitle" jsonschema:"Question text shown to respondents"`
	Options       []string `json:"options" jsonschema:"Answer choices in display order"`
	Required      bool     `json:"required,omitempty" jsonschema:"Whether an answer is required"`
}

type ChoiceQuestionOutput struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	QuestionTitle string   `json:"questionTitle"`
	Options       []string `json:"options"`
	Required      bool     `json:"required"`
}

func createAddMultipleChoiceQuestionHandler(client Client, logger *slog.Logger) registry.HandlerFor[AddMultipleChoiceQuestionInput] {
	const doing = "adding multiple choice question"
	return func(ctx context.Context, input AddMultipleChoiceQuestionInput) *mcp.CallToolResult {
		req := BuildAddQuestionRequest(QuestionItem{
			Title:    input.QuestionTitle,
			Required: input.Required,
			Kind:     ChoiceQuestion,
			Options:  input.Options,
		})

		if _, err := client.BatchUpdate(ctx, input.FormID, req); err != nil {
			return failure(ctx, logger, doing, err)
		}

		options := input.Options
		if options == nil {
			options = []string{}
		}
		return success(ctx, logger, doing, ChoiceQuestionOutput{
			Success:       true,
			Message:       ChoiceQuestionAddedMessage,
			QuestionTitle: input.QuestionTitle,
			Options:       options,
			Required:      input.Required,
		})
	}
}

// --- get_form / get_form_responses ---

type FormRefInput struct {
	FormID string `json:"formId" jsonschema:"The Google Form ID"`
}

func createGetFormHandler(client Client, logger *slog.Logger) registry.HandlerFor[FormRefInput] {
	const doing = "getting form"
	return func(ctx context.Context, input FormRefInput) *mcp.CallToolResult {
		raw, err := client.Get(ctx, input.FormID)
		if err != nil {
			return failure(ctx, logger, doing, err)
		}
		return success(ctx, logger, doing, raw)
	}
}

func createGetFormResponsesHandler(client Client, logger *slog.Logger) registry.HandlerFor[FormRefInput] {
	const doing = "getting form responses"
	return func(ctx context.Context, input FormRefInput) *mcp.CallToolResult {
		raw, err := client.ListResponses(ctx, input.FormID)
		if err != nil {
			return failure(ctx, logger, doing, err)
		}
		return success(ctx, logger, doing, raw)
	}
}

// --- Helper functions ---

// success encodes v as the tool's JSON payload. A json.RawMessage is only
// re-indented, so its fields and their order are kept. An encoding failure is
// reported like any other failure of the call.
func success(ctx context.Context, logger *slog.Logger, doing string, v any) *mcp.CallToolResult {
	result, err := response.JSON(v)
	if err != nil {
		return failure(ctx, logger, doing, err)
	}
	return result
}

// failure converts err into the caller-facing error result. The full error is
// only visible in the debug log.
func failure(ctx context.Context, logger *slog.Logger, doing string, err error) *mcp.CallToolResult {
	remote := middleware.AsRemoteError(err)
	logger.DebugContext(ctx, "forms call failed",
		"operation", doing,
		"code", remote.Code,
		"error", err,
	)
	return response.Error(doing, remote.Text())
}
