// internal/requestinfo/middleware.go
//
// Enrich parses the client user-agent, performs an IP geolocation, and
// stashes a *RequestInfo in the request context so handlers and access
// logs can read it without re-parsing headers.
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Enrich returns middleware that attaches request metadata to the context.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(clientIP(r)),
			URL:       r.URL,
			Timestamp: time.Now(),
		}

		zap.S().Debugw("request",
			"path", r.URL.Path,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"country", info.Geo.CountryISO,
		)

		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(withInfo(ctx, info)))
	})
}

// clientIP picks the best candidate for the real client address: the
// left-most X-Forwarded-For entry, then X-Real-Ip, then RemoteAddr.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-Ip"); xr != "" {
		if ip := net.ParseIP(xr); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
