// Package config loads client configuration: the backend URL and the access
// token. Precedence is env over file; the token lives in the config file
// under the fixed "access_token" key.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Env override names.
const (
	EnvServerURL   = "PAHANI_SERVER_URL"
	EnvAccessToken = "PAHANI_ACCESS_TOKEN"
)

// Config holds user preferences and credentials.
type Config struct {
	ServerURL   string `json:"server_url,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	DownloadDir string `json:"download_dir,omitempty"`
	Theme       string `json:"theme,omitempty"` // "light" or "dark"

	// TimeoutSeconds bounds every backend call. Zero means the default.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8000",
		Theme:     "light",
	}
}

// Timeout returns the configured request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Dir returns the directory where config is stored. A project-local .pahani
// directory wins over the home-level one.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".pahani")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pahani"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk and applies env overrides. A .env
// file in the working directory is honored. A missing config file is not an
// error: defaults are returned.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path, err := File()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultConfig().ServerURL
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.AccessToken = v
	}
	return cfg
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
