package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Blog    BlogConfig    `toml:"blog"`
	Server  ServerConfig  `toml:"server"`
	Weather WeatherConfig `toml:"weather"`
	Log     LogConfig     `toml:"log"`
}

// BlogConfig holds the blog publishing API settings.
type BlogConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	PublicListing  bool   `toml:"public_listing"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (b BlogConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// ServerConfig holds the tool server listen settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WeatherConfig holds the forecast example settings.
type WeatherConfig struct {
	BaseURL   string  `toml:"base_url"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

const (
	defaultBlogBaseURL    = "https://thenewheretics.blog"
	defaultTimeoutSeconds = 30
	defaultHost           = "localhost"
	defaultPort           = 7702
	defaultWeatherBaseURL = "https://api.open-meteo.com"
	defaultLatitude       = 52.52
	defaultLongitude      = 13.41
)

const defaultConfigContent = `[blog]
base_url = "https://thenewheretics.blog"
api_key = ""                      # Or set BLOG_API_KEY (API_KEY, NH_API_KEY also work)
public_listing = true             # Send the API key when listing posts if false
timeout_seconds = 30

[server]
host = "localhost"
port = 7702

[weather]
base_url = "https://api.open-meteo.com"
latitude = 52.52
longitude = 13.41

[log]
level = "info"                    # "debug", "info", "warn" or "error"
format = "text"                   # "text" or "json"
`

// apiKeyEnv lists the environment variables that carry the blog API key,
// highest priority first.
var apiKeyEnv = []string{"BLOG_API_KEY", "API_KEY", "NH_API_KEY"}

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// writing "port = 0" is an error rather than being replaced.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("blog", "timeout_seconds") {
		if cfg.Blog.TimeoutSeconds < 1 {
			return fmt.Errorf("invalid blog.timeout_seconds %d: must be >= 1", cfg.Blog.TimeoutSeconds)
		}
	}
	if md.IsDefined("blog", "base_url") && strings.TrimSpace(cfg.Blog.BaseURL) == "" {
		return errors.New("invalid blog.base_url: must not be empty")
	}
	return nil
}

// applyDefaults sets default values for fields the file left out.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Blog.BaseURL == "" {
		cfg.Blog.BaseURL = defaultBlogBaseURL
	}
	// A plain bool cannot tell "false" from "absent", so ask the metadata.
	if !md.IsDefined("blog", "public_listing") {
		cfg.Blog.PublicListing = true
	}
	if cfg.Blog.TimeoutSeconds == 0 {
		cfg.Blog.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = defaultWeatherBaseURL
	}
	if !md.IsDefined("weather", "latitude") {
		cfg.Weather.Latitude = defaultLatitude
	}
	if !md.IsDefined("weather", "longitude") {
		cfg.Weather.Longitude = defaultLongitude
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for blog.api_key:
//  1. BLOG_API_KEY (highest)
//  2. API_KEY
//  3. NH_API_KEY
func applyEnvOverrides(cfg *Config) {
	for _, name := range apiKeyEnv {
		if v := os.Getenv(name); v != "" {
			cfg.Blog.APIKey = v
			break
		}
	}
	if v := os.Getenv("BLOG_BASE_URL"); v != "" {
		cfg.Blog.BaseURL = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Blog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid blog.base_url %q: must be an http or https URL", cfg.Blog.BaseURL)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Weather.Latitude < -90 || cfg.Weather.Latitude > 90 {
		return fmt.Errorf("invalid weather.latitude %v: must be between -90 and 90", cfg.Weather.Latitude)
	}
	if cfg.Weather.Longitude < -180 || cfg.Weather.Longitude > 180 {
		return fmt.Errorf("invalid weather.longitude %v: must be between -180 and 180", cfg.Weather.Longitude)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("invalid log.format %q: must be \"text\" or \"json\"", cfg.Log.Format)
	}

	if cfg.Blog.APIKey == "" {
		slog.Warn("blog.api_key is empty: set it in the config file or via the BLOG_API_KEY environment variable")
	}

	return nil
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log.level %q: must be debug, info, warn or error", s)
}
