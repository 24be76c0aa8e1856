// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It uses 'caarlos0/env' to map environment variables into a typed struct. A
local .env file, when present, is loaded first with 'joho/godotenv'; variables
already set in the process environment win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded the configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/session"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// developmentSecret signs sessions when SESSION_SECRET is unset outside
// production.
const developmentSecret = "tastedees-development-secret-change-me"

// # Configuration Schema

// Config holds all runtime configuration for the storefront API server.
type Config struct {

	// Server settings
	Port        string     `env:"PORT"      envDefault:"8080"`
	Environment string     `env:"APP_ENV"   envDefault:"development"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// Sessions
	SessionSecret string             `env:"SESSION_SECRET"`
	CookieSecure  session.SecureMode `env:"COOKIE_SECURE" envDefault:"auto"`

	// Flat-file storage and static assets
	DataDir            string `env:"DATA_DIR"             envDefault:"./data"`
	LegacyTshirtsFile  string `env:"LEGACY_TSHIRTS_FILE"  envDefault:"./tshirts.json"`
	PublicDir          string `env:"PUBLIC_DIR"           envDefault:"./public"`
	UploadDir          string `env:"UPLOAD_DIR"`
	UploadPublicPrefix string `env:"UPLOAD_PUBLIC_PREFIX" envDefault:"/images/products"`

	// Relational Database (PostgreSQL), used when StoreBackend is "postgres"
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DBMaxConns   int32  `env:"DB_MAX_CONNS"  envDefault:"10"`

	// Key-Value store (Redis) for the shared login throttle
	RedisURL string `env:"REDIS_URL"`

	// Product events (Kafka)
	KafkaBrokers      []string `env:"KAFKA_BROKERS"       envSeparator:","`
	KafkaProductTopic string   `env:"KAFKA_PRODUCT_TOPIC" envDefault:"product-events"`

	// Image hosting (Cloudinary); local disk when empty
	CloudinaryURL    string `env:"CLOUDINARY_URL"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER" envDefault:"tastedees/products"`

	// Cross-Origin Resource Sharing
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Proxies (IPs or CIDRs) whose X-Forwarded-For / X-Real-IP are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Global per-IP rate limit
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

// # Configuration Loading

// Load reads .env if present, then parses and validates the environment.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is [Load] with explicit dotenv files. Missing files are skipped.
func LoadFiles(dotenv ...string) (*Config, error) {
	for _, file := range dotenv {
		if err := godotenv.Load(file); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (c *Config) applyDerivedDefaults() {
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.PublicDir, filepath.FromSlash(strings.TrimPrefix(c.UploadPublicPrefix, "/")))
	}
	if c.SessionSecret == "" && !c.IsProduction() {
		c.SessionSecret = developmentSecret
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.StoreBackend))
	}

	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == developmentSecret) {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}

	switch c.CookieSecure {
	case session.SecureAuto, session.SecureAlways, session.SecureNever:
	default:
		errs = append(errs, fmt.Errorf("COOKIE_SECURE must be auto, always or never, got %q", c.CookieSecure))
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// UsesDevelopmentSecret reports whether sessions are signed with the built-in
// fallback secret.
func (c *Config) UsesDevelopmentSecret() bool {
	return c.SessionSecret == developmentSecret
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the CORS allow list.
func (c *Config) AllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES. A bare address becomes a
// single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// UsersFile is the credential store path.
func (c *Config) UsersFile() string { return filepath.Join(c.DataDir, "users.json") }

// ProductsFile is the product store path.
func (c *Config) ProductsFile() string { return filepath.Join(c.DataDir, "products.json") }

// MigrationMarkerFile records the one-time legacy product migration.
func (c *Config) MigrationMarkerFile() string {
	return filepath.Join(c.DataDir, constants.ProductMigrationMarker)
}
