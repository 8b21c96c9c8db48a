// cmd/web/main.go
//
// Keystone – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load layered config (dotenv → conf/global.yaml → KEYSTONE_* env),
//     resolving any `vault:` secret refs.
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Open the content-store DB and log the published-site count.
//
//  5. Optionally open the GeoLite2 database for request enrichment.
//
//  6. Build the service graph: site manager, template catalog, compositor,
//     JWT verifier, host resolver, and the chi route table.
//
//  7. Wrap the mux: host rewrite → identity → request info → security
//     headers, with HTTPS enforcement outermost when configured.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/keystoneweb/keystone/internal/compose"
	"github.com/keystoneweb/keystone/internal/config"
	"github.com/keystoneweb/keystone/internal/database"
	"github.com/keystoneweb/keystone/internal/httpapi"
	"github.com/keystoneweb/keystone/internal/identity"
	"github.com/keystoneweb/keystone/internal/logger"
	"github.com/keystoneweb/keystone/internal/middleware"
	"github.com/keystoneweb/keystone/internal/requestinfo"
	"github.com/keystoneweb/keystone/internal/routing"
	"github.com/keystoneweb/keystone/internal/server"
	"github.com/keystoneweb/keystone/internal/site"
	"github.com/keystoneweb/keystone/internal/template"
)

const serverEnvPath = "/usr/local/etc/keystone/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Content-store DB connect ────────────────────────────────────
	//
	logOut.Infow("connecting to content store")
	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		logOut.Fatalw("connect content store", "error", err)
	}
	defer db.Close()
	logOut.Infow("content store online")

	// Log published-site count as an early sanity check.
	var published int
	_ = db.GetContext(ctx, &published,
		`SELECT COUNT(*) FROM site WHERE published_at IS NOT NULL`)
	logOut.Infow("published sites", "count", published)

	//
	// ── 2.  Optional GeoLite2 database ─────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geo lookups disabled", "error", err)
		}
	}

	//
	// ── 3.  Service graph ──────────────────────────────────────────────
	//
	sites := site.NewManager(db)
	catalog := template.NewCatalog(db)

	api := &httpapi.Handler{
		Sites:      sites,
		Templates:  catalog,
		Compositor: compose.New(catalog),
	}

	resolver := routing.NewResolver(cfg.Platform.Hosts, cfg.Platform.HostSuffixes)
	verifier := identity.NewVerifier([]byte(cfg.Auth.JWTSecret))

	//
	// ── 4.  Middleware chain (innermost first) ─────────────────────────
	//
	var h http.Handler = api.Router()
	h = requestinfo.Enrich(h)
	h = identity.Attach(verifier)(h)
	h = routing.Middleware(resolver)(h)
	h = middleware.Security(h)
	if cfg.HTTP.ForceHTTPS {
		h = middleware.ForceHTTPS(resolver, sites, h)
	}

	//
	// ── 5.  Serve ──────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, h)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalw("http server", "error", err)
	}
}
