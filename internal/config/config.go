package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, nested keys joined by "__",
// e.g. BAND_DB__DSN or BAND_SESSION__SECRET.
const EnvPrefix = "BAND_"

// Config holds runtime configuration.
type Config struct {
	App struct {
		Name            string        `koanf:"name"`
		HTTPAddr        string        `koanf:"http_addr"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		CORSOrigins     []string      `koanf:"cors_origins"`
	} `koanf:"app"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`

	DB struct {
		DSN      string `koanf:"dsn"`
		MaxConns int32  `koanf:"max_conns"`
	} `koanf:"db"`

	Redis struct {
		URL       string        `koanf:"url"`
		RecordTTL time.Duration `koanf:"record_ttl"`
	} `koanf:"redis"`

	Session struct {
		Secret        string        `koanf:"secret"`
		Issuer        string        `koanf:"issuer"`
		TTL           time.Duration `koanf:"ttl"`
		IdleTTL       time.Duration `koanf:"idle_ttl"`
		SweepInterval time.Duration `koanf:"sweep_interval"`
		CookieName    string        `koanf:"cookie_name"`
		CookieSecure  bool          `koanf:"cookie_secure"`
	} `koanf:"session"`

	Auth struct {
		Delay time.Duration `koanf:"delay"`
	} `koanf:"auth"`

	Checkout struct {
		GatewayDelay time.Duration `koanf:"gateway_delay"`
	} `koanf:"checkout"`

	Contact struct {
		Delay time.Duration `koanf:"delay"`
	} `koanf:"contact"`

	RateLimit struct {
		AuthMax int           `koanf:"auth_max"`
		Window  time.Duration `koanf:"window"`
	} `koanf:"rate_limit"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":               "smartband-store",
		"app.http_addr":          ":8080",
		"app.shutdown_timeout":   "10s",
		"app.cors_origins":       []string{"http://localhost:3000"},
		"log.level":              "info",
		"log.file":               "",
		"db.dsn":                 "",
		"db.max_conns":           10,
		"redis.url":              "",
		"redis.record_ttl":       "720h",
		"session.secret":         "",
		"session.issuer":         "smartband-store",
		"session.ttl":            "720h",
		"session.idle_ttl":       "2h",
		"session.sweep_interval": "5m",
		"session.cookie_name":    "session",
		"session.cookie_secure":  false,
		"auth.delay":             "1s",
		"checkout.gateway_delay": "500ms",
		"contact.delay":          "2s",
		"rate_limit.auth_max":    10,
		"rate_limit.window":      "1m",
	}
}

// Load layers built-in defaults, the optional YAML file at path and BAND_*
// environment variables, in that order.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads a .env file from the working directory when present, then
// the YAML file named by CONFIG_FILE, if any. Variables already set in the
// environment win over .env.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return Load(os.Getenv("CONFIG_FILE"))
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name required")
	}
	if c.Auth.Delay < 0 || c.Checkout.GatewayDelay < 0 || c.Contact.Delay < 0 {
		return fmt.Errorf("simulated delays must not be negative")
	}
	return nil
}

// ValidateServer adds the checks only the API process needs. The migrate,
// seed and importer commands run without a session secret.
func (c Config) ValidateServer() error {
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("session.secret must be at least 16 characters")
	}
	return nil
}
