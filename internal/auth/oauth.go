package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthManager builds access tokens from a long-lived refresh token.
type OAuthManager struct {
	config       *oauth2.Config
	refreshToken string
}

// NewOAuthManager creates an OAuth manager with the given credentials.
func NewOAuthManager(clientID, clientSecret, refreshToken string, scopes []string) *OAuthManager {
	return &OAuthManager{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		refreshToken: refreshToken,
	}
}

// TokenSource returns a concurrency-safe, auto-refreshing token source.
// ctx should outlive the server; it carries the HTTP client used for refreshes.
func (m *OAuthManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	seed := &oauth2.Token{RefreshToken: m.refreshToken}
	return oauth2.ReuseTokenSource(nil, m.config.TokenSource(ctx, seed))
}

// Verify exchanges the refresh token once so that bad credentials fail at
// startup instead of on the first tool call.
func Verify(ts oauth2.TokenSource) error {
	token, err := ts.Token()
	if err != nil {
		return fmt.Errorf("refreshing OAuth token: %w", err)
	}
	if !token.Valid() {
		return fmt.Errorf("refreshing OAuth token: received an invalid access token")
	}
	return nil
}
