package forms

import (
	"fmt"

	formspb "google.golang.org/api/forms/v1"
)

// ChoiceTypeRadio renders a choice question as single-select radio buttons.
const ChoiceTypeRadio = "RADIO"

// responderURITemplate is the public URL at which respondents fill out a form.
const responderURITemplate = "https://docs.google.com/forms/d/%s/viewform"

// QuestionKind selects the question variant created by BuildAddQuestionRequest.
type QuestionKind int

const (
	TextQuestion QuestionKind = iota
	ChoiceQuestion
)

// QuestionItem is a question to insert into a form. Options is used only by
// ChoiceQuestion.
type QuestionItem struct {
	Title    string
	Required bool
	Kind     QuestionKind
	Options  []string
}

// ResponderURI returns the respondent-facing URL of the form.
func ResponderURI(formID string) string {
	return fmt.Sprintf(responderURITemplate, formID)
}

// BuildCreateFormRequest returns the payload for forms.create. The description
// is left unset when empty so that no empty-string field is sent.
func BuildCreateFormRequest(title, description string) *formspb.Form {
	info := &formspb.Info{
		Title:         title,
		DocumentTitle: title,
	}
	if description != "" {
		info.Description = description
	}
	return &formspb.Form{Info: info}
}

// BuildAddQuestionRequest returns a batch update holding one createItem request.
// The item always goes to index 0, so the newest question is listed first.
func BuildAddQuestionRequest(q QuestionItem) *formspb.BatchUpdateFormRequest {
	question := &formspb.Question{
		Required:        q.Required,
		ForceSendFields: []string{"Required"},
	}

	switch q.Kind {
	case ChoiceQuestion:
		options := make([]*formspb.Option, 0, len(q.Options))
		for _, v := range q.Options {
			options = append(options, &formspb.Option{Value: v})
		}
		question.ChoiceQuestion = &formspb.ChoiceQuestion{
			Type:    ChoiceTypeRadio,
			Options: options,
		}
	default:
		question.TextQuestion = &formspb.TextQuestion{}
	}

	return &formspb.BatchUpdateFormRequest{
		Requests: []*formspb.Request{{
			CreateItem: &formspb.CreateItemRequest{
				Item: &formspb.Item{
					Title:        q.Title,
					QuestionItem: &formspb.QuestionItem{Question: question},
				},
				Location: &formspb.Location{
					Index:           0,
					ForceSendFields: []string{"Index"},
				},
			},
		}},
	}
}
