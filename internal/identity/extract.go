package identity

import (
	"net/http"
	"strings"
)

// ForwardedAuthHeader carries the end user token when an upstream proxy
// has already consumed the Authorization header for its own check
const ForwardedAuthHeader = "X-Forwarded-Authorization"

// TokenCookie is the fallback cookie browsers send when no header is set
const TokenCookie = "token"

// bearerToken strips a case-insensitive Bearer prefix when present
// a raw token without the prefix is accepted as-is
func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	const prefix = "bearer "
	if len(v) >= len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return v
}

// UserToken extracts the end user token from the request
// precedence: forwarded header, cookie, then the plain Authorization header
func UserToken(r *http.Request) string {
	if v := r.Header.Get(ForwardedAuthHeader); strings.TrimSpace(v) != "" {
		return bearerToken(v)
	}
	if ck, err := r.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if v := r.Header.Get("Authorization"); strings.TrimSpace(v) != "" {
		return bearerToken(v)
	}
	return ""
}

// PlatformToken extracts the infrastructure token from the Authorization
// header only; the forwarded header and cookie belong to the end user
func PlatformToken(r *http.Request) string {
	v := r.Header.Get("Authorization")
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return bearerToken(v)
}
