// internal/routing/host_test.go
//
// Unit-tests for host classification and tenant-path rewriting.
//
// Context
// -------
// The resolver middleware decides, per request, whether the Host header
// belongs to the builder application or to a customer domain.  These tests
// verify the critical behaviours:
//
//   • Platform hosts (exact and suffix matches) pass through untouched.
//   • Tenant hosts are rewritten to /site/{host}{path} with the query
//     string preserved.
//   • Ports are stripped and comparison is case-insensitive.
//   • Rewriting round-trips: SplitSitePath recovers host and path exactly.
//   • A missing Host header degrades to a platform request.

package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestResolver() *Resolver {
	return NewResolver(
		[]string{"localhost", "127.0.0.1", "app.keystoneweb.ca"},
		[]string{"keystoneweb.ca", "keystoneweb.com", "vercel.app"},
	)
}

func TestIsPlatform(t *testing.T) {
	res := newTestResolver()

	cases := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"localhost:3000", true},
		{"127.0.0.1:8080", true},
		{"app.keystoneweb.ca", true},
		{"APP.KeystoneWeb.CA", true},
		{"keystoneweb.ca", true},
		{"www.keystoneweb.com", true},
		{"preview-abc123.vercel.app", true},
		{"", true}, // malformed request, handled as platform
		{"acme.example.com", false},
		{"cool-barber.com", false},
		{"notkeystoneweb.ca.evil.com", false},
	}
	for _, c := range cases {
		if got := res.IsPlatform(c.host); got != c.want {
			t.Errorf("IsPlatform(%q) = %v, want %v", c.host, got, c.want)
		}
	}
}

func TestRewritePath(t *testing.T) {
	got := RewritePath("acme.example.com:443", "/about")
	if got != "/site/acme.example.com/about" {
		t.Fatalf("RewritePath = %q", got)
	}
	if got := RewritePath("Acme.Example.com", "/"); got != "/site/acme.example.com/" {
		t.Fatalf("root rewrite = %q", got)
	}
}

func TestSplitSitePath_RoundTrip(t *testing.T) {
	hosts := []string{"acme.example.com", "cool-barber.com", "x.y.z"}
	paths := []string{"/", "/about", "/blog/2025/05", "/a/b/c.html"}

	for _, h := range hosts {
		for _, p := range paths {
			host, path, ok := SplitSitePath(RewritePath(h, p))
			if !ok {
				t.Fatalf("SplitSitePath(%q,%q): not a site path", h, p)
			}
			if host != h || path != p {
				t.Fatalf("round trip (%q,%q) → (%q,%q)", h, p, host, path)
			}
		}
	}

	if _, _, ok := SplitSitePath("/api/sites"); ok {
		t.Fatal("non-site path must not split")
	}
}

func TestMiddleware_TenantRewrite(t *testing.T) {
	res := newTestResolver()

	var gotPath, gotQuery string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "http://acme.example.com/about?x=1", nil)
	rr := httptest.NewRecorder()

	Middleware(res)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotPath != "/site/acme.example.com/about" {
		t.Fatalf("rewrite failed: got path %q", gotPath)
	}
	if gotQuery != "x=1" {
		t.Fatalf("query not preserved: %q", gotQuery)
	}
}

func TestMiddleware_PlatformPassThrough(t *testing.T) {
	res := newTestResolver()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sites" {
			t.Fatalf("platform path mutated: %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "http://app.keystoneweb.ca/api/sites", nil)
	rr := httptest.NewRecorder()

	Middleware(res)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
