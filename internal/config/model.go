// internal/config/model.go
//
// Typed configuration model for the TRIX site backend.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/site.yaml`                       – primary static file,
//   • `TRIX_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so secrets (mirror API
// key, Resend key, DB password) never live in flat files or git history.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

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
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  It must contain exactly one
// `%s` verb where `Password` is spliced in at open time.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Mirror section
//

// Mirror configures the external notification endpoint that receives a
// reduced copy of each submission.  Failures there are logged, never
// surfaced to the visitor.  An empty section disables the channel (local
// dev runs without secrets); a base URL without its key is rejected.
type Mirror struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	APIKey  string `koanf:"api_key"  validate:"required_with=BaseURL"`
}

//
// Mail section
//

// Mail configures the transactional thank-you email sent through Resend.
// Like Mirror, an empty section disables the channel; a key without a
// From address is rejected.
type Mail struct {
	ResendKey string `koanf:"resend_key"`
	From      string `koanf:"from" validate:"required_with=ResendKey"`
}

//
// Admin section
//

// Admin holds the access-gate allow-list and the session signing key.
// Allow-listed emails are always authorized; everyone else needs an
// `admin_users` row with the flag set.
type Admin struct {
	AllowList  []string `koanf:"allow_list" validate:"required,min=1,dive,email"`
	SessionKey string   `koanf:"session_key" validate:"required"`
}

//
// GeoIP section
//

// GeoIP points at the MaxMind database used to annotate submissions with
// a country code.  Empty path disables the lookup; everything else keeps
// working.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or TRIX_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // TRIX_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().  main owns the
// value and injects the pieces each component needs.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Mirror   Mirror   `koanf:"mirror"`
	Mail     Mail     `koanf:"mail"`
	Admin    Admin    `koanf:"admin"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
