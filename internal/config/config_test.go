package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTestConfig is a helper that writes a TOML config file to a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

// clearKeyEnv unsets the API key variables for the duration of the test.
func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiKeyEnv {
		t.Setenv(name, "")
	}
	t.Setenv("BLOG_BASE_URL", "")
}

func TestLoad_ValidConfig(t *testing.T) {
	clearKeyEnv(t)
	content := `
[blog]
base_url = "https://staging.thenewheretics.blog/"
api_key = "file-key"
public_listing = false
timeout_seconds = 5

[server]
host = "0.0.0.0"
port = 9090

[weather]
base_url = "http://localhost:9999"
latitude = 0.0
longitude = -3.7

[log]
level = "debug"
format = "json"
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// Blog config
	if cfg.Blog.BaseURL != "https://staging.thenewheretics.blog/" {
		t.Errorf("Blog.BaseURL = %q", cfg.Blog.BaseURL)
	}
	if cfg.Blog.APIKey != "file-key" {
		t.Errorf("Blog.APIKey = %q, want %q", cfg.Blog.APIKey, "file-key")
	}
	if cfg.Blog.PublicListing {
		t.Errorf("Blog.PublicListing = true, want explicit false kept")
	}
	if cfg.Blog.Timeout() != 5*time.Second {
		t.Errorf("Blog.Timeout() = %v, want 5s", cfg.Blog.Timeout())
	}

	// Server config
	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("Server.Addr() = %q, want %q", cfg.Server.Addr(), "0.0.0.0:9090")
	}

	// Weather config
	if cfg.Weather.Latitude != 0 || cfg.Weather.Longitude != -3.7 {
		t.Errorf("Weather coordinates = %v,%v; want 0,-3.7 (explicit zero kept)", cfg.Weather.Latitude, cfg.Weather.Longitude)
	}

	// Log config
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_MissingFile_CreatesDefault(t *testing.T) {
	clearKeyEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// File should have been created.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config file not created at %q: %v", path, err)
	}
	if !strings.Contains(string(data), "[blog]") {
		t.Errorf("default config missing [blog] section:\n%s", data)
	}

	assertDefaults(t, cfg)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	clearKeyEnv(t)
	path := writeTestConfig(t, "[blog]\n\n[server]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}
	assertDefaults(t, cfg)
}

func assertDefaults(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg.Blog.BaseURL != "https://thenewheretics.blog" {
		t.Errorf("Blog.BaseURL = %q, want default", cfg.Blog.BaseURL)
	}
	if !cfg.Blog.PublicListing {
		t.Error("Blog.PublicListing = false, want default true")
	}
	if cfg.Blog.TimeoutSeconds != 30 {
		t.Errorf("Blog.TimeoutSeconds = %d, want 30", cfg.Blog.TimeoutSeconds)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 7702 {
		t.Errorf("Server = %+v, want localhost:7702", cfg.Server)
	}
	if cfg.Weather.BaseURL != "https://api.open-meteo.com" {
		t.Errorf("Weather.BaseURL = %q", cfg.Weather.BaseURL)
	}
	if cfg.Weather.Latitude != 52.52 || cfg.Weather.Longitude != 13.41 {
		t.Errorf("Weather coordinates = %v,%v; want 52.52,13.41", cfg.Weather.Latitude, cfg.Weather.Longitude)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
}

func TestLoad_APIKeyEnvPriority(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "file only", env: nil, want: "from-config"},
		{name: "NH_API_KEY", env: map[string]string{"NH_API_KEY": "nh"}, want: "nh"},
		{name: "API_KEY over NH_API_KEY", env: map[string]string{"NH_API_KEY": "nh", "API_KEY": "generic"}, want: "generic"},
		{name: "BLOG_API_KEY over all", env: map[string]string{"NH_API_KEY": "nh", "API_KEY": "generic", "BLOG_API_KEY": "blog"}, want: "blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeTestConfig(t, "[blog]\napi_key = \"from-config\"\n")

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", path, err)
			}
			if cfg.Blog.APIKey != tt.want {
				t.Errorf("Blog.APIKey = %q, want %q", cfg.Blog.APIKey, tt.want)
			}
		})
	}
}

func TestLoad_BaseURLEnvOverride(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("BLOG_BASE_URL", "http://127.0.0.1:5000")
	path := writeTestConfig(t, "[blog]\nbase_url = \"https://thenewheretics.blog\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}
	if cfg.Blog.BaseURL != "http://127.0.0.1:5000" {
		t.Errorf("Blog.BaseURL = %q, want env override", cfg.Blog.BaseURL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "explicit zero port", content: "[server]\nport = 0\n", wantErr: "server.port"},
		{name: "port too large", content: "[server]\nport = 70000\n", wantErr: "server.port"},
		{name: "explicit zero timeout", content: "[blog]\ntimeout_seconds = 0\n", wantErr: "blog.timeout_seconds"},
		{name: "blank base url", content: "[blog]\nbase_url = \"  \"\n", wantErr: "blog.base_url"},
		{name: "non-http base url", content: "[blog]\nbase_url = \"ftp://example.com\"\n", wantErr: "blog.base_url"},
		{name: "latitude out of range", content: "[weather]\nlatitude = 91.0\n", wantErr: "weather.latitude"},
		{name: "longitude out of range", content: "[weather]\nlongitude = -200.0\n", wantErr: "weather.longitude"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", wantErr: "log.level"},
		{name: "bad format", content: "[log]\nformat = \"xml\"\n", wantErr: "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			path := writeTestConfig(t, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error, got nil", path)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeTestConfig(t, "[blog\nbase_url = ")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("Load malformed: got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("API_KEY", "already-set")
	// godotenv never replaces a variable that exists, even when empty.
	os.Unsetenv("BLOG_API_KEY")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BLOG_API_KEY=from-dotenv\nAPI_KEY=from-dotenv-too\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("BLOG_API_KEY"); got != "from-dotenv" {
		t.Errorf("BLOG_API_KEY = %q, want %q", got, "from-dotenv")
	}
	if got := os.Getenv("API_KEY"); got != "already-set" {
		t.Errorf("API_KEY = %q, want existing value kept", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file: got %v, want nil", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path: got %v, want nil", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose): expected error")
	}
}
