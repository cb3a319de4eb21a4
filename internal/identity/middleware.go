package identity

import (
	"net/http"

	perrs "stackpad/internal/platform/errors"
	pnet "stackpad/internal/platform/net"
	phttp "stackpad/internal/platform/net/http"
)

// Gate is the two layer auth chain mounted in front of the API
// the platform verifier is nil when not running behind the managed runtime
type Gate struct {
	User     *UserVerifier
	Platform *PlatformVerifier
	Policy   Policy
}

// Middleware enforces the platform gate then the user gate
// verified user claims land on the request context for handlers
func (g Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Policy.Exempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		if g.Platform != nil {
			if err := g.Platform.Verify(PlatformToken(r)); err != nil {
				phttp.WriteError(w, pnet.RequestID(r.Context()), err)
				return
			}
		}

		if g.Policy.UserExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		// a nil verifier means the signing secret was never configured
		// that is a server fault, not a credential fault
		if g.User == nil {
			phttp.WriteError(w, pnet.RequestID(r.Context()), perrs.Internalf("auth secret not configured"))
			return
		}

		claims, err := g.User.Verify(UserToken(r))
		if err != nil {
			phttp.WriteError(w, pnet.RequestID(r.Context()), err)
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = pnet.WithUser(ctx, claims.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
