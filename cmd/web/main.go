// cmd/web/main.go
//
// TRIX site – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (system-wide file → .env fallback).
//
//  2. Load the layered configuration (yaml → TRIX_ env → Vault refs).
//
//  3. Start the daily rotating logger (tees to console in a TTY).
//
//  4. Open the MySQL pool and the optional GeoIP database.
//
//  5. Build the domain wiring: submission store, access gate, session
//     manager, outbound queue, mirror and mail clients, country catalog.
//
//  6. Mount the chi router: ForceHTTPS → security headers → request
//     enrichment, then the public landing API, the admin API, the
//     Prometheus /metrics endpoint, and the static site files.
//
//  7. Run the server and the queue worker under one errgroup; SIGINT or
//     SIGTERM drains both gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/trixgeo/trix-site/internal/admin"
	"github.com/trixgeo/trix-site/internal/authgate"
	"github.com/trixgeo/trix-site/internal/config"
	"github.com/trixgeo/trix-site/internal/countries"
	"github.com/trixgeo/trix-site/internal/database"
	"github.com/trixgeo/trix-site/internal/landing"
	"github.com/trixgeo/trix-site/internal/logger"
	"github.com/trixgeo/trix-site/internal/mailer"
	"github.com/trixgeo/trix-site/internal/message"
	"github.com/trixgeo/trix-site/internal/middleware"
	"github.com/trixgeo/trix-site/internal/mirror"
	"github.com/trixgeo/trix-site/internal/pipeline"
	"github.com/trixgeo/trix-site/internal/requestinfo"
	"github.com/trixgeo/trix-site/internal/server"
	"github.com/trixgeo/trix-site/internal/session"
	"github.com/trixgeo/trix-site/internal/submission"
)

const serverEnvPath = "/usr/local/etc/trix-site/global.env"

// loadEnv prefers the system-wide env file; on dev it falls back to .env.
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
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sugar, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	//
	// ── 1.  Database + GeoIP ────────────────────────────────────────────
	//
	sugar.Infow("connecting to database")
	db, err := database.Open(cfg.Database.DSN, cfg.Database.Password)
	if err != nil {
		sugar.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	sugar.Infow("database online")

	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		// The site works without country annotations.
		sugar.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
	}

	//
	// ── 2.  Domain wiring ───────────────────────────────────────────────
	//
	store := submission.NewStore(db)
	queue := message.New(256)
	sessions := session.NewManager(cfg.Admin.SessionKey)
	gate := authgate.New(
		authgate.NewAllowList(cfg.Admin.AllowList),
		&authgate.DocumentFlag{DB: db.DB},
	)

	var mirrorClient pipeline.Mirror
	if cfg.Mirror.BaseURL != "" {
		mirrorClient = mirror.New(cfg.Mirror.BaseURL, cfg.Mirror.APIKey)
	}
	var mailClient pipeline.Mailer
	if cfg.Mail.ResendKey != "" {
		mailClient = mailer.New(cfg.Mail.ResendKey, cfg.Mail.From)
	}
	pipe := pipeline.New(store, queue, mirrorClient, mailClient)

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	landing.NewHandler(pipe, countries.New()).Routes(r)
	admin.NewHandler(db.DB, store, sessions, gate).Routes(r)

	r.Handle("/metrics", promhttp.Handler())

	// Static site assets (the built landing page), with SPA-style
	// index.html fallback handled by the file server's 404 only.
	staticDir := filepath.Join(cfg.Paths.Root, "public")
	if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)
	sugar.Infow("listening", "addr", cfg.HTTP.ListenAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, srv) })
	g.Go(func() error { return queue.Run(gctx) })

	if err := g.Wait(); err != nil {
		sugar.Fatalw("shutdown with error", "err", err)
	}
	sugar.Infow("shutdown complete")
}
