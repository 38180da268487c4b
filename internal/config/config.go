// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/closet/internal/db"
)

// Config holds server settings. Optional integrations are enabled by
// setting their address or credentials.
type Config struct {
	DBDriver string
	DBDSN    string
	Addr     string
	LogPath  string
	ShopWait time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL     string
	NATSSubject string

	ShopifyDomain string
	ShopifyToken  string

	PixelID    string
	PixelToken string
}

// Defaults.
const (
	DefaultDBDriver = "sqlite"
	DefaultDBDSN    = "closet.sqlite3"
	DefaultAddr     = ":8080"
	DefaultShopWait = 3 * time.Second
)

// Load reads the given .env files, or ./.env when none are named, and
// builds a Config from the environment. A missing default .env is not an
// error; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv.
func FromLookup(getenv func(string) string) (*Config, error) {
	e := env(getenv)

	redisDB, err := e.getInt("CLOSET_REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	shopWait, err := e.getDuration("CLOSET_SHOP_WAIT", DefaultShopWait)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBDriver:      e.get("CLOSET_DB_DRIVER", DefaultDBDriver),
		DBDSN:         e.get("CLOSET_DB_DSN", DefaultDBDSN),
		Addr:          e.get("CLOSET_ADDR", DefaultAddr),
		LogPath:       e.get("CLOSET_LOG", ""),
		ShopWait:      shopWait,
		RedisAddr:     e.get("CLOSET_REDIS_ADDR", ""),
		RedisPassword: e.get("CLOSET_REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		NATSURL:       e.get("CLOSET_NATS_URL", ""),
		NATSSubject:   e.get("CLOSET_NATS_SUBJECT", ""),
		ShopifyDomain: e.get("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyToken:  e.get("SHOPIFY_STOREFRONT_TOKEN", ""),
		PixelID:       e.get("META_PIXEL_ID", ""),
		PixelToken:    e.get("META_ACCESS_TOKEN", ""),
	}, nil
}

// Dialect returns the configured database dialect.
func (c *Config) Dialect() (db.Dialect, error) {
	return db.ParseDialect(c.DBDriver)
}

// Validate checks settings that must be given together.
func (c *Config) Validate() error {
	if _, err := c.Dialect(); err != nil {
		return err
	}
	if c.DBDSN == "" {
		return errors.New("database DSN required")
	}
	if (c.ShopifyDomain == "") != (c.ShopifyToken == "") {
		return errors.New("SHOPIFY_STORE_DOMAIN and SHOPIFY_STOREFRONT_TOKEN must be set together")
	}
	if (c.PixelID == "") != (c.PixelToken == "") {
		return errors.New("META_PIXEL_ID and META_ACCESS_TOKEN must be set together")
	}
	if c.ShopWait <= 0 {
		return errors.New("shop wait must be positive")
	}
	return nil
}

type env func(string) string

func (e env) get(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(e(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func (e env) getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(e(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
