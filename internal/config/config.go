// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
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
)

// Error policies understood by the HTTP layer.
const (
	PolicyTaxonomy   = "taxonomy"
	PolicyBadRequest = "bad_request"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DB DBConfig

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int

	// AdminToken gates admin registration and login.  Empty disables both.
	AdminToken string

	// ErrorPolicy selects how domain errors map to HTTP status codes.
	ErrorPolicy string

	DenylistEnabled bool
	DenylistPrefix  string

	// AMQPURL is the broker for domain events.  Empty disables publishing.
	AMQPURL string

	LogLevel string

	Redis RedisConfig
	Cache CacheConfig
}

// DBConfig is the MySQL connection.
type DBConfig struct {
	User string
	Pass string // empty allowed
	Host string
	Port string
	Name string
}

// Load reads the .env file in the working directory when there is one and
// then builds a Config from the environment.  Variables already set in the
// environment win over the file.  Every missing or malformed required
// variable is reported in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	l := &loader{}
	cfg := Config{
		Env:  l.must("APP_ENV"),
		Port: l.must("APP_PORT"),
		DB: DBConfig{
			User: l.must("DB_USER"),
			Pass: os.Getenv("DB_PASS"),
			Host: l.must("DB_HOST"),
			Port: l.must("DB_PORT"),
			Name: l.must("DB_NAME"),
		},
		JWTSecret:       l.must("JWT_SECRET"),
		AccessTTL:       time.Duration(l.mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		RefreshTTL:      time.Duration(l.mustInt("REFRESH_TOKEN_TTL_DAYS")) * 24 * time.Hour,
		BcryptCost:      l.mustInt("BCRYPT_COST"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		ErrorPolicy:     strings.ToLower(getenv("HTTP_ERROR_POLICY", PolicyTaxonomy)),
		DenylistEnabled: l.boolean("TOKEN_DENYLIST_ENABLED", false),
		DenylistPrefix:  getenv("TOKEN_DENYLIST_PREFIX", "denylist"),
		AMQPURL:         os.Getenv("AMQP_URL"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Redis:           loadRedisConfig(l),
		Cache:           loadCacheConfig(l),
	}
	if cfg.ErrorPolicy != PolicyTaxonomy && cfg.ErrorPolicy != PolicyBadRequest {
		l.fail(fmt.Errorf("invalid HTTP_ERROR_POLICY: %q", cfg.ErrorPolicy))
	}
	if err := l.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN returns the go-sql-driver/mysql data source name.  parseTime maps
// DATETIME columns to time.Time and multiStatements lets migrations run
// whole files.  clientFoundRows makes UPDATE report matched rows, so an
// update that changes nothing is not mistaken for a missing row.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true&clientFoundRows=true",
		c.User, c.Pass, c.Host, c.Port, c.Name)
}

// loader collects every problem instead of stopping at the first one.
type loader struct {
	errs []error
}

func (l *loader) fail(err error) { l.errs = append(l.errs, err) }

func (l *loader) err() error { return errors.Join(l.errs...) }

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.fail(fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// mustInt is like must but converts the value into an integer.
func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.fail(fmt.Errorf("invalid int for %s: %q", key, s))
	}
	return n
}

func (l *loader) integer(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.fail(fmt.Errorf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}

func (l *loader) boolean(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		l.fail(fmt.Errorf("invalid bool for %s: %q", key, s))
		return def
	}
	return b
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		l.fail(fmt.Errorf("invalid duration for %s: %q", key, s))
		return def
	}
	return d
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
