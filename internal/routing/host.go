// internal/routing/host.go
//
// Host classification and tenant-path rewriting.
//
// Context
// -------
// One process serves both the builder application and every published
// customer site.  The Host header decides which: hostnames enumerated in
// config are *platform* (the builder itself, local dev names, and the
// hosting provider's preview domains); everything else is a *tenant*
// domain and gets its path rewritten to `/site/{host}{path}` so the rest
// of the router can treat tenant lookup as a pure function of the path.
//
// The resolver is a side-effect-free string transform.  It never consults
// the content store; an unknown tenant hostname simply 404s downstream
// when no published site matches.
package routing

import (
	"strings"
)

// SitePathPrefix is the internal route prefix for rewritten tenant requests.
const SitePathPrefix = "/site/"

// Resolver classifies hostnames against the configured platform set.
// Zero value treats every host as a tenant; construct with NewResolver.
type Resolver struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewResolver builds a Resolver from exact platform hostnames and domain
// suffixes.  Suffixes are matched against both the whole host and its
// subdomains, so "keystoneweb.ca" covers "keystoneweb.ca" and
// "app.keystoneweb.ca".  All comparisons are case-insensitive.
func NewResolver(hosts, suffixes []string) *Resolver {
	r := &Resolver{
		exact:    make(map[string]struct{}, len(hosts)),
		suffixes: make([]string, 0, len(suffixes)),
	}
	for _, h := range hosts {
		r.exact[strings.ToLower(stripPort(h))] = struct{}{}
	}
	for _, s := range suffixes {
		r.suffixes = append(r.suffixes, strings.ToLower(strings.TrimPrefix(s, ".")))
	}
	return r
}

// IsPlatform reports whether the raw Host header belongs to the builder
// application.  An empty host is treated as platform so a malformed request
// falls through to a standard not-found instead of a bogus tenant lookup.
func (r *Resolver) IsPlatform(rawHost string) bool {
	host := Normalize(rawHost)
	if host == "" {
		return true
	}
	if _, ok := r.exact[host]; ok {
		return true
	}
	for _, s := range r.suffixes {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// RewritePath maps a tenant request to its internal path:
// ("acme.example.com", "/about") → "/site/acme.example.com/about".
// The query string is not part of the path and is left untouched by callers.
func RewritePath(rawHost, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return SitePathPrefix + Normalize(rawHost) + path
}

// SplitSitePath is the inverse of RewritePath.  It recovers the tenant host
// and original path from a rewritten path.  ok is false when p is not a
// /site/ path.
func SplitSitePath(p string) (host, path string, ok bool) {
	if !strings.HasPrefix(p, SitePathPrefix) {
		return "", "", false
	}
	rest := p[len(SitePathPrefix):]
	if rest == "" {
		return "", "", false
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], rest[i:], true
	}
	return rest, "/", true
}

// Normalize lowercases a raw Host header and strips any :port suffix.
func Normalize(rawHost string) string {
	return strings.ToLower(stripPort(strings.TrimSpace(rawHost)))
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
