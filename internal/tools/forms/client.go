package forms

import (
	"context"
	"encoding/json"

	formspb "google.golang.org/api/forms/v1"
)

// Client is the subset of the Forms API the tools call. It is satisfied by
// *services.Forms. The read calls return the API body undecoded.
//
//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks
type Client interface {
	Create(ctx context.Context, form *formspb.Form) (*formspb.Form, error)
	BatchUpdate(ctx context.Context, formID string, req *formspb.BatchUpdateFormRequest) (*formspb.BatchUpdateFormResponse, error)
	Get(ctx context.Context, formID string) (json.RawMessage, error)
	ListResponses(ctx context.Context, formID string) (json.RawMessage, error)
}
