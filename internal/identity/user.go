package identity

import (
	perrs "stackpad/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// UserVerifier checks end user tokens against the shared signing secret
type UserVerifier struct {
	secret []byte
}

// NewUserVerifier wraps the HMAC secret the auth provider signs with
// an empty secret is a deployment fault, not a caller fault
func NewUserVerifier(secret string) (*UserVerifier, error) {
	if secret == "" {
		return nil, perrs.Internalf("auth secret not configured")
	}
	return &UserVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates raw and returns its claims
// any parse or signature failure maps to an invalid token error
func (v *UserVerifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, perrs.Unauthorizedf("missing bearer token")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, perrs.Wrap(err, perrs.CodeInvalidToken, "token verification failed")
	}
	if claims.Subject == "" {
		return nil, perrs.InvalidTokenf("token has no subject")
	}
	return claims, nil
}
