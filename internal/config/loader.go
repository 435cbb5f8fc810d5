// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/site.yaml`.
  3. Environment variables prefixed `TRIX_`, where `__` maps to “.”
     (e.g., `TRIX_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
secret references are resolved through Vault, the result is validated and
enriched with the runtime root path.  The returned Config is immutable;
main owns it and passes it down explicitly.

Secret references
-----------------
Any leaf of the form `vault:<mount/path>#<key>` is swapped for the value
stored in Vault KV-v2 before validation runs.  When no `vault:` prefix is
present the literal value is used as-is, which keeps local development
free of a Vault dependency.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/site.yaml`; this
    lets `go run ./cmd/web` work from any sub-directory.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/trixgeo/trix-site/internal/vault"
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves TRIX_ROOT or climbs directories until conf/site.yaml is
// found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("TRIX_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "site.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, and env overrides, resolves secrets, and
// returns the validated Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "site.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}

	// Env overrides: TRIX_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("TRIX_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, &cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"mirror_base", cfg.Mirror.BaseURL,
		"allow_list", len(cfg.Admin.AllowList),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── secret refs ─────────────────────────────────*/

// resolveSecrets walks the handful of secret-bearing fields and replaces
// `vault:` references with the stored value.  The Vault client is created
// lazily on the first reference, so configs without any `vault:` leaf never
// touch Vault.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	refs := []*string{
		&cfg.Database.Password,
		&cfg.Mirror.APIKey,
		&cfg.Mail.ResendKey,
		&cfg.Admin.SessionKey,
	}

	var cli *vault.Client
	for _, f := range refs {
		path, key, ok := splitRef(*f)
		if !ok {
			continue
		}
		if cli == nil {
			var err error
			if cli, err = vault.New(ctx, zap.S().Infof); err != nil {
				return err
			}
		}
		val, err := cli.GetKV(ctx, path, key, 10*time.Minute)
		if err != nil {
			return err
		}
		*f = val
	}
	return nil
}

// splitRef parses "vault:secret/data/trix#api_key" into its path and key.
func splitRef(s string) (path, key string, ok bool) {
	rest, found := strings.CutPrefix(s, "vault:")
	if !found {
		return "", "", false
	}
	path, key, found = strings.Cut(rest, "#")
	if !found || path == "" || key == "" {
		return "", "", false
	}
	return path, key, true
}

