// Package config loads the Folio configuration. Values are resolved in
// three layers: built-in defaults, then an optional TOML file, then
// FOLIO_-prefixed environment variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Default endpoint and server settings.
const (
	DefaultListenAddr   = ":8080"
	DefaultGoogleAuth   = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultGoogleToken  = "https://oauth2.googleapis.com/token"
	DefaultUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	DefaultTaskTimeout  = 30 * time.Second
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
)

// DefaultScopes are the Google permissions requested on every
// authorization: document editing, file metadata and search, and the
// identity scopes needed to resolve the account's stable id and email.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Google   GoogleConfig   `toml:"google"`
	Store    StoreConfig    `toml:"store"`
	LLM      LLMConfig      `toml:"llm"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address for the task API server.
	Addr string `toml:"addr" env:"FOLIO_SERVER_ADDR"`

	ReadTimeout  time.Duration `toml:"read_timeout" env:"FOLIO_SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"FOLIO_SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `toml:"idle_timeout" env:"FOLIO_SERVER_IDLE_TIMEOUT"`
}

// GoogleConfig holds the OAuth application settings.
type GoogleConfig struct {
	ClientID     string `toml:"client_id" env:"FOLIO_GOOGLE_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"FOLIO_GOOGLE_CLIENT_SECRET"`

	// RedirectURI is where Google sends the user back with the code.
	// For the hosted flow this is <base-url>/auth/google/callback; the
	// CLI login flow overrides it with a loopback address.
	RedirectURI string `toml:"redirect_uri" env:"FOLIO_GOOGLE_REDIRECT_URI"`

	// Scopes requested on authorization. Defaults cover Docs, Drive
	// search and account identity.
	Scopes []string `toml:"scopes" env:"FOLIO_GOOGLE_SCOPES" envSeparator:","`

	// Endpoint overrides, used by tests to point at a stub server.
	AuthURL     string `toml:"auth_url" env:"FOLIO_GOOGLE_AUTH_URL"`
	TokenURL    string `toml:"token_url" env:"FOLIO_GOOGLE_TOKEN_URL"`
	UserInfoURL string `toml:"userinfo_url" env:"FOLIO_GOOGLE_USERINFO_URL"`
}

// StoreConfig selects and configures the credential store backend.
type StoreConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `toml:"backend" env:"FOLIO_STORE_BACKEND"`

	// DataDir is where the sqlite backend keeps its database.
	// Empty defaults to ~/.folio/data.
	DataDir string `toml:"data_dir" env:"FOLIO_STORE_DATA_DIR"`
}

// LLMConfig configures the optional language model collaborator for the
// conversational capability. An empty APIKey disables it.
type LLMConfig struct {
	APIKey  string        `toml:"api_key" env:"FOLIO_LLM_API_KEY"`
	BaseURL string        `toml:"base_url" env:"FOLIO_LLM_BASE_URL"`
	Model   string        `toml:"model" env:"FOLIO_LLM_MODEL"`
	Timeout time.Duration `toml:"timeout" env:"FOLIO_LLM_TIMEOUT"`
}

// DispatchConfig holds task dispatcher settings.
type DispatchConfig struct {
	// DefaultTimeout bounds handlers when a task carries no timeout.
	DefaultTimeout time.Duration `toml:"default_timeout" env:"FOLIO_DISPATCH_DEFAULT_TIMEOUT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" env:"FOLIO_LOG_LEVEL"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         DefaultListenAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		Google: GoogleConfig{
			Scopes:      append([]string(nil), DefaultScopes...),
			AuthURL:     DefaultGoogleAuth,
			TokenURL:    DefaultGoogleToken,
			UserInfoURL: DefaultUserInfoURL,
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Dispatch: DispatchConfig{
			DefaultTimeout: DefaultTaskTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file at path
// (skipped when path is empty and ~/.folio/config.toml does not exist),
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, required, err := configPath(path)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", resolved, err)
			}
		case os.IsNotExist(err) && !required:
			// No config file is fine; env and defaults carry it.
		default:
			return nil, fmt.Errorf("reading config file %s: %w", resolved, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return &cfg, nil
}

// configPath resolves the config file location. An explicitly given path
// must exist; the default location is optional.
func configPath(path string) (resolved string, required bool, err error) {
	if path != "" {
		return path, true, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, nil // homeless environments run on env alone
	}
	return filepath.Join(home, ".folio", "config.toml"), false, nil
}

// Validate checks that the settings required to run the server are
// present. Missing fields are collected into one error.
func (c *Config) Validate() error {
	var missing []string
	if c.Google.ClientID == "" {
		missing = append(missing, "google.client_id (FOLIO_GOOGLE_CLIENT_ID)")
	}
	if c.Google.ClientSecret == "" {
		missing = append(missing, "google.client_secret (FOLIO_GOOGLE_CLIENT_SECRET)")
	}
	if c.Google.RedirectURI == "" {
		missing = append(missing, "google.redirect_uri (FOLIO_GOOGLE_REDIRECT_URI)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.Store.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite or memory)", c.Store.Backend)
	}
	return nil
}
