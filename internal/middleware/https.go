// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/keystoneweb/keystone/internal/routing"
	"github.com/keystoneweb/keystone/internal/site"
)

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is neither
// "localhost" nor a platform host, and a published site exists for the
// domain, the wrapper issues a 308 Permanent Redirect to the HTTPS version
// of the same URL.  Otherwise it calls the next handler unchanged.
// The Host header is normalized the same way the serve path normalizes it,
// so case or a port suffix never changes the decision.
func ForceHTTPS(res *routing.Resolver, sites *site.Manager, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := routing.Normalize(r.Host)

		// Already HTTPS or dev/platform host → continue.
		if r.TLS != nil || host == "localhost" || res.IsPlatform(r.Host) {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect when the domain maps to a published site.
		if _, err := sites.ByDomain(r.Context(), host); err == nil {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (likely 404 later).
		h.ServeHTTP(w, r)
	})
}
