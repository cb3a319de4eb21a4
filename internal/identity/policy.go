package identity

import (
	"net/http"
	"strings"
)

// Policy decides which routes bypass the gates
// routing is static so the decision is a straight path match, no regex
type Policy struct {
	// WebhookPath is the payment provider callback, authenticated by
	// its own signature scheme instead of a bearer token
	WebhookPath string
}

// Exempt reports whether the route skips both gates entirely
func (p Policy) Exempt(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/health":
		return true
	case path == "/api/docs" || strings.HasPrefix(path, "/api/docs/"):
		return true
	case p.WebhookPath != "" && path == p.WebhookPath:
		return true
	}
	return false
}

// UserExempt reports whether the route skips the user gate only
// signup has no user yet so it cannot carry a user token
func (p Policy) UserExempt(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/api/v1/users"
}
