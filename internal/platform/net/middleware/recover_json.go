package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "stackpad/internal/platform/errors"
	"stackpad/internal/platform/logger"
	pnet "stackpad/internal/platform/net"
	phttp "stackpad/internal/platform/net/http"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs stack with request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if v := recover(); v != nil {
				reqID := pnet.RequestID(r.Context())

				// format stack like chi recover
				raw := debug.Stack()
				lines := strings.Split(string(raw), "\n")
				stack := strings.Join(lines, "\n\t")

				log := logger.C(r.Context())
				log.Error().
					Str("request_id", reqID).
					Interface("panic", v).
					Msgf("panic recovered\n%s", stack)

				// mirror id in response header
				if reqID != "" {
					w.Header().Set("X-Request-ID", reqID)
				}

				phttp.WriteError(w, reqID, perr.Internalf("panic recovered"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
