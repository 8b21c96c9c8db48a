// internal/config/model.go
//
// Typed configuration model for Keystone.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `KEYSTONE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling, so the rest of the app
// never sees Vault URIs — only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"` — Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Platform section
//

// Platform enumerates the hostnames that belong to the builder application
// itself.  Any host not matched here is treated as a tenant domain and has
// its path rewritten to /site/{host}{path}.
//
// Hosts are exact, case-insensitive matches after port stripping.  Suffixes
// match subdomains and hosting-provider preview domains (".keystoneweb.ca"
// matches "app.keystoneweb.ca" and "keystoneweb.ca" itself).
type Platform struct {
	Hosts        []string `koanf:"hosts"         validate:"required,min=1"`
	HostSuffixes []string `koanf:"host_suffixes"`
}

//
// Database section
//

// Database holds the content-store DSN and its secret.
//
// The DSN template is kept in YAML so operators can tweak host, port, or
// flags without touching Vault.  The password is stored in Vault and
// injected at runtime, keeping credentials out of flat files and git
// history.  The DSN may contain one %s verb where the password is spliced.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

//
// Auth section
//

// Auth configures the identity verifier.  Secret may be a `vault:` ref.
type Auth struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

//
// Geo section
//

// Geo points at an optional MaxMind GeoLite2-City database used by the
// request-info middleware.  Empty path disables geo lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime — never set in YAML or env.  The loader
// discovers `Root` (repo root or KEYSTONE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // KEYSTONE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Platform Platform `koanf:"platform"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
