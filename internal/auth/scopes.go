package auth

import (
	formspb "google.golang.org/api/forms/v1"
)

// ServiceScopes lists the scopes needed to create and edit forms and read responses.
var ServiceScopes = []string{
	formspb.FormsBodyScope,
	formspb.FormsResponsesReadonlyScope,
}

// ReadOnlyScopes is used when --read-only is set.
var ReadOnlyScopes = []string{
	formspb.FormsBodyReadonlyScope,
	formspb.FormsResponsesReadonlyScope,
}

// Scopes returns the scope set for the given mode.
func Scopes(readOnly bool) []string {
	src := ServiceScopes
	if readOnly {
		src = ReadOnlyScopes
	}
	scopes := make([]string, len(src))
	copy(scopes, src)
	return scopes
}
