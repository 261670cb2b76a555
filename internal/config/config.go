// Package config handles the XDG configuration directory, file paths and settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.toml"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// GoogleTokenFile is the stored Google OAuth token filename.
	GoogleTokenFile = "google_token.json"

	// LogFile receives diagnostics while the board UI owns the terminal.
	LogFile = "taskboard.log"

	// DefaultBaseURL is the backend used when nothing else is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds each backend request.
	DefaultTimeout = 30 * time.Second
)

// Environment overrides.
const (
	EnvURL      = "TASKBOARD_URL"
	EnvLogLevel = "TASKBOARD_LOG_LEVEL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// BaseURL is the REST backend root, e.g. http://localhost:5000.
	BaseURL string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is one of text, json, logfmt.
	LogFormat string

	// Timeout bounds each backend request. Zero disables it.
	Timeout time.Duration
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	BaseURL        string `toml:"base_url"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	RequestTimeout string `toml:"request_timeout"`
}

// New creates a Config rooted at configDir, or the default directory if empty.
// Settings come from defaults, then config.toml, then the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:       dir,
		BaseURL:   DefaultBaseURL,
		LogLevel:  "warn",
		LogFormat: "text",
		Timeout:   DefaultTimeout,
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.ConfigPath(), &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: request_timeout: %q", ConfigFile, fc.RequestTimeout)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// GoogleTokenPath returns the path to the stored Google OAuth token.
func (c *Config) GoogleTokenPath() string {
	return filepath.Join(c.Dir, GoogleTokenFile)
}

// LogPath returns the path to the board UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the Google OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasGoogleToken checks if a Google token has been stored.
func (c *Config) HasGoogleToken() bool {
	_, err := os.Stat(c.GoogleTokenPath())
	return err == nil
}
