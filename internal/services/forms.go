package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	formspb "google.golang.org/api/forms/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Forms is the credentialed Google Forms client shared by every tool call.
// Each method issues exactly one API request; nothing is retried.
type Forms struct {
	srv        *formspb.Service
	httpClient *http.Client
}

// NewForms builds the Forms client from ts. Extra options are applied after
// the authenticated HTTP client, so tests can point it at another endpoint.
//
// The HTTP client is bound to context.Background() so it outlives the startup
// context; each call passes its own request context.
func NewForms(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Forms, error) {
	client := oauth2.NewClient(context.Background(), ts)
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := formspb.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating forms service: %w", err)
	}
	return &Forms{srv: srv, httpClient: client}, nil
}

// Create creates a new form.
func (f *Forms) Create(ctx context.Context, form *formspb.Form) (*formspb.Form, error) {
	return f.srv.Forms.Create(form).Context(ctx).Do()
}

// BatchUpdate applies req to the form atomically.
func (f *Forms) BatchUpdate(ctx context.Context, formID string, req *formspb.BatchUpdateFormRequest) (*formspb.BatchUpdateFormResponse, error) {
	return f.srv.Forms.BatchUpdate(formID, req).Context(ctx).Do()
}

// Get fetches the form resource exactly as the API returns it.
func (f *Forms) Get(ctx context.Context, formID string) (json.RawMessage, error) {
	return f.getRaw(ctx, "v1/forms/{formId}", formID)
}

// ListResponses fetches the form's responses in a single request, exactly as
// the API returns them.
func (f *Forms) ListResponses(ctx context.Context, formID string) (json.RawMessage, error) {
	return f.getRaw(ctx, "v1/forms/{formId}/responses", formID)
}

// getRaw issues a GET against the service endpoint and returns the body
// undecoded. Fields unknown to the generated types are kept.
func (f *Forms) getRaw(ctx context.Context, path, formID string) (json.RawMessage, error) {
	urls := googleapi.ResolveRelative(f.srv.BasePath, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urls, nil)
	if err != nil {
		return nil, err
	}
	googleapi.Expand(req.URL, map[string]string{"formId": formID})
	req.Header.Set("Accept", "application/json")
	if f.srv.UserAgent != "" {
		req.Header.Set("User-Agent", f.srv.UserAgent)
	}

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(res)
	if err := googleapi.CheckResponse(res); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decoding response body: invalid JSON")
	}
	return json.RawMessage(body), nil
}
