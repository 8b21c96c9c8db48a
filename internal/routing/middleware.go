// internal/routing/middleware.go
//
// Host-resolution middleware.
//
// Runs first on every request, before identity and request-info
// enrichment.  Platform hosts pass through unchanged; tenant hosts have
// r.URL.Path rewritten to /site/{host}{path}.  Method, query string, and
// body are never touched.
package routing

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/keystoneweb/keystone/internal/metrics"
)

// Middleware returns the host-resolver wrapper bound to res.
func Middleware(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if res.IsPlatform(r.Host) {
				next.ServeHTTP(w, r)
				return
			}

			original := r.URL.Path
			rewritten := RewritePath(r.Host, original)
			r.URL.Path = rewritten
			r.URL.RawPath = "" // force re-encoding from Path
			metrics.HostRewritesTotal.Inc()

			zap.L().Debug("host rewrite",
				zap.String("host", Normalize(r.Host)),
				zap.String("from", original),
				zap.String("to", rewritten))

			next.ServeHTTP(w, r)
		})
	}
}
