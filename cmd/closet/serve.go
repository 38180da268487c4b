package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/closet/internal/analytics"
	"github.com/erazemk/closet/internal/api"
	"github.com/erazemk/closet/internal/catalog"
	"github.com/erazemk/closet/internal/config"
	"github.com/erazemk/closet/internal/db"
	"github.com/erazemk/closet/internal/querycache"
	"github.com/erazemk/closet/internal/store"
	"github.com/erazemk/closet/internal/storefront"
)

var errHelp = errors.New("help requested")

// parseFlags parses args onto cfg. Flag defaults are the values already
// loaded from the environment.
func parseFlags(name, help string, cfg *config.Config, args []string, extra func(*flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "")
	fs.StringVar(&cfg.DBDriver, "D", cfg.DBDriver, "")
	fs.StringVar(&cfg.DBDSN, "db", cfg.DBDSN, "")
	fs.StringVar(&cfg.DBDSN, "d", cfg.DBDSN, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")
	if extra != nil {
		extra(fs)
	}

	fs.Usage = func() { fmt.Fprint(os.Stdout, help) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

const serveHelp = `Usage: closet serve [flags]

Flags:
  -D, -driver <name>      database driver, sqlite or postgres (env CLOSET_DB_DRIVER, default: sqlite)
  -d, -db <dsn>           database path or DSN (env CLOSET_DB_DSN, default: closet.sqlite3)
  -a, -addr <host:port>   listen address (env CLOSET_ADDR, default: :8080)
  -r, -redis <host:port>  Redis query cache (env CLOSET_REDIS_ADDR, default: in-process cache)
  -n, -nats <url>         NATS server for analytics events (env CLOSET_NATS_URL)
  -l, -log <path>         log file path (env CLOSET_LOG, default: stdout/stderr only)
  -h, -help               show this help and exit
`

func cmdServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	err = parseFlags("serve", serveHelp, cfg, args, func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
		fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
		fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "")
		fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "")
		fs.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "")
		fs.StringVar(&cfg.NATSURL, "n", cfg.NATSURL, "")
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	database, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	tokenSecret, err := st.GetTokenSecret(ctx)
	if err != nil {
		return fmt.Errorf("loading token secret: %w", err)
	}

	svc := catalog.NewService(st)
	svc.Brands = st

	if cfg.RedisAddr != "" {
		backend, err := querycache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer backend.Close()
		svc.Cache = querycache.New(backend)
		slog.Info("query cache ready", "backend", "redis", "addr", cfg.RedisAddr)
	}

	if cfg.ShopifyDomain != "" {
		svc.Products = storefront.New(cfg.ShopifyDomain, cfg.ShopifyToken)
		slog.Info("storefront ready", "domain", cfg.ShopifyDomain)
	}

	var sinks analytics.Multi
	if cfg.PixelID != "" {
		pixel := analytics.NewPixel(cfg.PixelID, cfg.PixelToken)
		defer pixel.Close()
		sinks = append(sinks, pixel)
		slog.Info("analytics sink ready", "sink", "pixel")
	}
	if cfg.NATSURL != "" {
		nc, err := analytics.NewNATS(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return err
		}
		defer nc.Close()
		sinks = append(sinks, nc)
		slog.Info("analytics sink ready", "sink", "nats", "url", cfg.NATSURL)
	}

	var sink analytics.Sink = analytics.Nop{}
	if len(sinks) > 0 {
		sink = sinks
	}

	router := api.NewRouter(api.Deps{
		Catalog:     svc,
		Store:       st,
		Analytics:   sink,
		TokenSecret: tokenSecret,
		ShopWait:    cfg.ShopWait,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("server started", "addr", ln.Addr().String())
	if err := serveUntil(ctx, server, ln); err != nil {
		return err
	}

	slog.Info("server stopped, flushing analytics and closing database")
	return nil
}

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 5 * time.Second

// serveUntil serves on ln until ctx is done, then shuts the server down and
// returns once in-flight requests have finished, so callers may release
// what the handlers use.
func serveUntil(ctx context.Context, server *http.Server, ln net.Listener) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownDone <- server.Shutdown(sctx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	if err := <-shutdownDone; err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	return nil
}

// openStore opens the configured database and ensures its schema.
func openStore(cfg *config.Config) (*sql.DB, *store.SQLStore, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(dialect, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.EnsureSchema(database, dialect); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("ensuring database schema: %w", err)
	}

	slog.Info("database ready", "driver", dialect)
	return database, store.New(database, dialect), nil
}
