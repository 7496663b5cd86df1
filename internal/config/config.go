package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultAPIBaseURL  = "https://gemvoyage-backend.duckdns.org/api"
	DefaultSiteBaseURL = "https://gemvoyage.net"

	// DevSessionSecret signs cookies when GEMVOYAGE_SESSION_SECRET is unset.
	// It is public; deployments must override it.
	DevSessionSecret = "gemvoyage-dev-secret"
)

// Config is read from GEMVOYAGE_* variables; the database keeps the plain DB_* names.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"https://gemvoyage-backend.duckdns.org/api"`
	SiteBaseURL    string        `envconfig:"SITE_BASE_URL" default:"https://gemvoyage.net"`
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	PerPage        int           `envconfig:"PER_PAGE" default:"9"`
	StoragePath    string        `envconfig:"STORAGE_PATH"`
	SessionSecret  string        `envconfig:"SESSION_SECRET" default:"gemvoyage-dev-secret"`
	SecureCookies  bool          `envconfig:"SECURE_COOKIES" default:"false"`
	WriteRateLimit int           `envconfig:"WRITE_RATE_LIMIT" default:"20"`

	// AllowOrigins lists cross-origin callers. Empty serves same-origin only.
	AllowOrigins []string `envconfig:"ALLOW_ORIGINS"`

	DB Database `ignored:"true"`
}

type Database struct {
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// UsesDevSessionSecret reports whether cookies are signed with the public
// development secret.
func (c Config) UsesDevSessionSecret() bool {
	return c.SessionSecret == "" || c.SessionSecret == DevSessionSecret
}

// Enabled reports whether a database host was configured. Without one the
// web front keeps device state in memory.
func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// Load reads an optional .env file and decodes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("GEMVOYAGE", &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	if err := envconfig.Process("", &c.DB); err != nil {
		return c, fmt.Errorf("load database config: %w", err)
	}
	if c.StoragePath == "" {
		c.StoragePath = DefaultStoragePath()
	}
	if c.PerPage <= 0 {
		c.PerPage = 9
	}
	return c, nil
}

// DefaultStoragePath is ~/.gemvoyage/storage.yaml, or a relative path when
// the home directory is unknown.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gemvoyage", "storage.yaml")
	}
	return filepath.Join(home, ".gemvoyage", "storage.yaml")
}
