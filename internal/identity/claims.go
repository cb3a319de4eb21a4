// Package identity verifies the caller on every request and stashes
// the resulting claims in the request context for downstream handlers
package identity

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload shape minted by the auth provider
type Claims struct {
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	AAL         string `json:"aal,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`

	jwt.RegisteredClaims
}

// UserID is the token subject
func (c *Claims) UserID() string { return c.Subject }

type ctxKey int

const keyClaims ctxKey = iota

// WithClaims stashes verified claims on the context
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, keyClaims, c)
}

// ClaimsFrom returns the verified claims or nil when the request was not gated
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(keyClaims).(*Claims)
	return c
}
