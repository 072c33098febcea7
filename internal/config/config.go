// Package config handles XDG configuration directory and file paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskr"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (Google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth or bearer token filename.
	TokenFile = "token.json"

	// DefaultBaseURL is the task API endpoint used when config.yaml sets none.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultList is the Google Tasks list used by the googletasks backend.
	DefaultList = "@default"
)

// Backend names.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the task service implementation.
	Backend string

	// BaseURL is the REST task API root.
	BaseURL string

	// List is the Google Tasks list ID.
	List string

	// Timeout bounds each API call. Zero leaves it to the transport.
	Timeout time.Duration
}

// fileSettings lists the keys config.yaml may set. Paths and flags stay out
// of reach of the file.
type fileSettings struct {
	Backend string        `mapstructure:"backend"`
	BaseURL string        `mapstructure:"base_url"`
	List    string        `mapstructure:"list"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskr or $HOME/.config/taskr.
// Settings come from config.yaml in that directory when it exists.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		Backend: BackendREST,
		BaseURL: DefaultBaseURL,
		List:    DefaultList,
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	path := c.FilePath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	fs := fileSettings{
		Backend: c.Backend,
		BaseURL: c.BaseURL,
		List:    c.List,
		Timeout: c.Timeout,
	}
	if err := v.Unmarshal(&fs); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	c.Backend = strings.ToLower(strings.TrimSpace(fs.Backend))
	c.BaseURL = fs.BaseURL
	c.List = fs.List
	c.Timeout = fs.Timeout
	switch c.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return fmt.Errorf("invalid %s: unknown backend: %s", ConfigFile, c.Backend)
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.List == "" {
		c.List = DefaultList
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid %s: negative timeout", ConfigFile)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
