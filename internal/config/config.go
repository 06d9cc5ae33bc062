package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server" yaml:"server"`
	Logger   Logger   `mapstructure:"logger" yaml:"logger"`
	Backend  Backend  `mapstructure:"backend" yaml:"backend"`
	Database Database `mapstructure:"database" yaml:"database"`
	Storage  Storage  `mapstructure:"storage" yaml:"storage"`
	Auth     Auth     `mapstructure:"auth" yaml:"auth"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port      int    `mapstructure:"port" yaml:"port"`
	PublicURL string `mapstructure:"public_url" yaml:"public_url"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// Output lists zap sinks: "stdout", "stderr" or file paths.
	Output []string `mapstructure:"output" yaml:"output"`
}

// Backend selects where records, objects and identities live.
// In local mode they are served from sqlite, the filesystem and Auth.Users;
// in remote mode from the managed backend at URL.
type Backend struct {
	Mode           string        `mapstructure:"mode" yaml:"mode"`
	URL            string        `mapstructure:"url" yaml:"url"`
	APIKey         string        `mapstructure:"api_key" yaml:"api_key"`
	ServiceKey     string        `mapstructure:"service_key" yaml:"service_key"`
	RateLimit      float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Database holds the configuration for the local database.
type Database struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// Storage holds object storage settings.
type Storage struct {
	Root         string `mapstructure:"root" yaml:"root"`
	TraderBucket string `mapstructure:"trader_bucket" yaml:"trader_bucket"`
	MgiBucket    string `mapstructure:"mgi_bucket" yaml:"mgi_bucket"`
	DefaultExt   string `mapstructure:"default_ext" yaml:"default_ext"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Auth lists the static identities accepted in local mode.
type Auth struct {
	Users []User `mapstructure:"users" yaml:"users"`
}

// User is a bearer token bound to an identity.
type User struct {
	Token string `mapstructure:"token" yaml:"token"`
	ID    string `mapstructure:"id" yaml:"id"`
	Email string `mapstructure:"email" yaml:"email"`
}

var defaults = map[string]any{
	"server.port":              8080,
	"server.public_url":        "http://localhost:8080",
	"logger.level":             "info",
	"logger.format":            "console",
	"logger.output":            []string{"stderr"},
	"backend.mode":             ModeLocal,
	"backend.rate_limit":       10, // requests per second
	"backend.rate_limit_burst": 5,
	"backend.timeout":          "30s",
	"database.dsn":             "journal.db",
	"storage.root":             "./data/storage",
	"storage.trader_bucket":    "trader-images",
	"storage.mgi_bucket":       "mgi-images",
	"storage.default_ext":      "jpg",
	"storage.max_upload_mb":    10,
}

// LoadConfig reads config.yml from path, then applies .env and environment overrides.
func LoadConfig(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := newViper()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return decode(v)
}

// LoadFile reads a single config file, whatever its name.
func LoadFile(file string) (Config, error) {
	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", file, err)
	}
	return decode(v)
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		// defaults are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

// SaveToFile writes cfg as YAML.
func (c Config) SaveToFile(file string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(file, data, 0o644)
}

// Validate reports the first inconsistency that would stop the service from starting.
func (c Config) Validate() error {
	switch c.Backend.Mode {
	case ModeLocal:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required in %s mode", ModeLocal)
		}
		if c.Storage.Root == "" {
			return fmt.Errorf("storage.root is required in %s mode", ModeLocal)
		}
	case ModeRemote:
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url is required in %s mode", ModeRemote)
		}
		if c.Backend.ServiceKey == "" {
			return fmt.Errorf("backend.service_key is required in %s mode", ModeRemote)
		}
	default:
		return fmt.Errorf("unknown backend.mode %q", c.Backend.Mode)
	}
	if c.Storage.TraderBucket == "" || c.Storage.MgiBucket == "" {
		return fmt.Errorf("storage buckets must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
