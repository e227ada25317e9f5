package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config holds all application configuration.
// Every field can be set by command-line flag or environment variable.
type Config struct {
	// Server configuration
	Server ServerConfig `group:"Server Options" namespace:"server" env-namespace:"SERVER"`

	// Database configuration (remote bookmark store)
	Database DatabaseConfig `group:"Database Options" namespace:"db" env-namespace:"DB"`

	// News search API configuration
	News NewsConfig `group:"News API Options" namespace:"news" env-namespace:"NEWS"`

	// Auth provider configuration
	Auth AuthConfig `group:"Auth Options" namespace:"auth" env-namespace:"AUTH"`

	// Persisted client state
	State StateConfig `group:"Client State Options" namespace:"state" env-namespace:"STATE"`

	// Logging configuration
	Log LogConfig `group:"Logging Options" namespace:"log" env-namespace:"LOG"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	ReadTimeout     time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"30s" description:"HTTP read timeout"`
	WriteTimeout    time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" default:"30s" description:"HTTP write timeout"`
	IdleTimeout     time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT" default:"120s" description:"HTTP keep-alive idle timeout"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"30s" description:"Graceful shutdown timeout"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `long:"host" env:"HOST" default:"localhost" description:"Database host"`
	Port         string        `long:"port" env:"PORT" default:"5432" description:"Database port"`
	User         string        `long:"user" env:"USER" default:"postgres" description:"Database user"`
	Password     string        `long:"password" env:"PASSWORD" default:"postgres" description:"Database password"`
	Name         string        `long:"name" env:"NAME" default:"sports_central" description:"Database name"`
	SSLMode      string        `long:"sslmode" env:"SSLMODE" default:"disable" description:"PostgreSQL sslmode"`
	MaxOpenConns int           `long:"max-open-conns" env:"MAX_OPEN_CONNS" default:"10" description:"Maximum open connections"`
	MaxIdleConns int           `long:"max-idle-conns" env:"MAX_IDLE_CONNS" default:"2" description:"Maximum idle connections"`
	MaxLifetime  time.Duration `long:"max-lifetime" env:"MAX_LIFETIME" default:"5m" description:"Maximum connection lifetime"`
	MigrateDown  bool          `long:"migrate-down" env:"MIGRATE_DOWN" description:"Roll back the last migration and exit"`
}

// NewsConfig holds news search API settings
type NewsConfig struct {
	BaseURL     string        `long:"base-url" env:"BASE_URL" default:"https://newsapi.org/v2" description:"News search API base URL"`
	APIKey      string        `long:"api-key" env:"API_KEY" description:"News search API key (required)"`
	PageSize    int           `long:"page-size" env:"PAGE_SIZE" default:"30" description:"Articles requested per fetch"`
	Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"Per-request timeout"`
	MinInterval time.Duration `long:"min-interval" env:"MIN_INTERVAL" default:"500ms" description:"Minimum interval between outbound requests"`
	Locale      string        `long:"locale" env:"LOCALE" default:"en-US" description:"Locale used to render article dates"`
	Timezone    string        `long:"timezone" env:"TIMEZONE" default:"Local" description:"Time zone used to render article dates"`
}

// AuthConfig holds settings for validating session tokens from the auth provider
type AuthConfig struct {
	TokenSecret string `long:"token-secret" env:"TOKEN_SECRET" description:"HMAC secret for session tokens (required)"`
	Issuer      string `long:"issuer" env:"ISSUER" description:"Expected token issuer"`
	Audience    string `long:"audience" env:"AUDIENCE" default:"authenticated" description:"Expected token audience"`
}

// StateConfig holds the location of the persisted client state
type StateConfig struct {
	Path string `long:"path" env:"PATH" default:"./data/client-state.db" description:"SQLite file for client state"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `long:"level" env:"LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	Format string `long:"format" env:"FORMAT" default:"json" description:"Log format (json or pretty)"`
}

// ErrHelp is returned by Load when --help was requested
var ErrHelp = errors.New("help requested")

// Load reads configuration from command-line arguments and environment variables
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.News.APIKey == "" {
		return fmt.Errorf("NEWS_API_KEY is required")
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100, got %d", c.News.PageSize)
	}
	if c.News.Timeout <= 0 {
		return fmt.Errorf("NEWS_TIMEOUT must be positive")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("STATE_PATH is required")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Location resolves the configured time zone, falling back to time.Local
func (c *NewsConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
