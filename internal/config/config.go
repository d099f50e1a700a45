package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultUploadDir       = "public/uploads"
	defaultUploadPrefix    = "/uploads"
	defaultUploadMaxBytes  = 5 * 1024 * 1024
	defaultEventStatusCron = "*/15 * * * *"
	defaultPhoneRegion     = "US"
	defaultShutdownSeconds = 30
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type UploadsConfig struct {
	Dir          string `yaml:"dir"`
	PublicPrefix string `yaml:"public_prefix"`
	MaxBytes     int64  `yaml:"max_bytes"`
}

type EmailConfig struct {
	Region           string `yaml:"region"`
	Sender           string `yaml:"sender"`
	ContactRecipient string `yaml:"contact_recipient"`
	AccessKeyID      string `yaml:"-"` // Loaded from environment
	SecretAccessKey  string `yaml:"-"` // Loaded from environment
}

// Enabled reports whether SES credentials and addresses are all present.
func (e EmailConfig) Enabled() bool {
	return e.AccessKeyID != "" && e.SecretAccessKey != "" && e.Region != "" && e.Sender != "" && e.ContactRecipient != ""
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
		StaticDir              string `yaml:"static_dir"`
		// Timezone reads event times entered without an offset.
		Timezone               string `yaml:"timezone"`
		SecretKey              string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Email    EmailConfig    `yaml:"email"`

	Scheduler struct {
		EventStatusCron string `yaml:"event_status_cron"`
	} `yaml:"scheduler"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Players struct {
		DefaultPhoneRegion string `yaml:"default_phone_region"`
	} `yaml:"players"`

	// Club details shown on the contact page.
	Club struct {
		About   string   `yaml:"about"`
		Address []string `yaml:"address"`
		Phone   string   `yaml:"phone"`
		Email   string   `yaml:"email"`
		Hours   []string `yaml:"hours"`
	} `yaml:"club"`

	Theme struct {
		PrimaryColor   string `yaml:"primary_color"`
		SecondaryColor string `yaml:"secondary_color"`
		AccentColor    string `yaml:"accent_color"`
	} `yaml:"theme"`

	Features struct {
		RequireAdminAuth bool `yaml:"require_admin_auth"`
		// OpenRegistration lets anyone create an admin account. Without it
		// only the first account can self-register.
		OpenRegistration bool `yaml:"open_registration"`
		TrustProxy       bool `yaml:"trust_proxy"`
		EnableDebug      bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("SES_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("SES_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML config data and fills defaults. It does not validate.
// The back office requires a session unless the file sets
// features.require_admin_auth to false.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	cfg.Features.RequireAdminAuth = true
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "UTC"
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		c.App.ShutdownTimeoutSeconds = defaultShutdownSeconds
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = defaultUploadDir
	}
	if c.Uploads.PublicPrefix == "" {
		c.Uploads.PublicPrefix = defaultUploadPrefix
	}
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = defaultUploadMaxBytes
	}
	if c.Scheduler.EventStatusCron == "" {
		c.Scheduler.EventStatusCron = defaultEventStatusCron
	}
	if c.Players.DefaultPhoneRegion == "" {
		c.Players.DefaultPhoneRegion = defaultPhoneRegion
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app timezone is invalid: %w", err)
	}

	if !strings.HasPrefix(c.Uploads.PublicPrefix, "/") {
		return fmt.Errorf("uploads public_prefix must start with /")
	}

	if _, err := cron.ParseStandard(c.Scheduler.EventStatusCron); err != nil {
		return fmt.Errorf("scheduler event_status_cron is invalid: %w", err)
	}

	if c.Features.RequireAdminAuth && c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required when require_admin_auth is enabled")
	}

	return nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Location returns the club's timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
