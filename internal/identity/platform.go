package identity

import (
	"os"

	perrs "stackpad/internal/platform/errors"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GoogleJWKSURL serves the signing keys for OIDC identity tokens the
// serverless platform attaches to forwarded requests
const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// ManagedRuntime reports whether we run behind the serverless platform
// that injects its own identity layer (detected via its runtime env)
func ManagedRuntime() bool { return os.Getenv("K_SERVICE") != "" }

// PlatformConfig tunes the infrastructure token verifier
type PlatformConfig struct {
	// JWKSURL overrides the key set endpoint, mostly for tests
	JWKSURL string

	// Audience is the expected aud claim, typically the backend service URL
	Audience string

	// Issuer is the expected iss claim
	Issuer string
}

// PlatformVerifier checks the OIDC identity token stamped by the
// infrastructure in front of this service
type PlatformVerifier struct {
	jwks *keyfunc.JWKS
	cfg  PlatformConfig
}

// NewPlatformVerifier fetches the key set and returns a verifier
// the JWKS client refreshes keys in the background until closed
func NewPlatformVerifier(cfg PlatformConfig) (*PlatformVerifier, error) {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = GoogleJWKSURL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "https://accounts.google.com"
	}
	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, perrs.Wrap(err, perrs.CodeInternal, "jwks fetch failed")
	}
	return &PlatformVerifier{jwks: jwks, cfg: cfg}, nil
}

// Close stops the background key refresh
func (v *PlatformVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Verify validates the infrastructure token signature, issuer and audience
func (v *PlatformVerifier) Verify(raw string) error {
	if raw == "" {
		return perrs.Unauthorizedf("missing platform token")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}
	if _, err := jwt.Parse(raw, v.jwks.Keyfunc, opts...); err != nil {
		return perrs.Wrap(err, perrs.CodeInvalidToken, "platform token verification failed")
	}
	return nil
}
