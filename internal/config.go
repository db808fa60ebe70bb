package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL is used when no server is configured anywhere.
	DefaultServerURL = "http://localhost:8000"

	// DefaultMaxUploadMB is the per-file size ceiling enforced before
	// any upload request is sent.
	DefaultMaxUploadMB = 2

	serverEnvVar = "PDFCHAT_SERVER"
)

// Config holds user-level settings loaded from the config file.
type Config struct {
	ServerURL   string `yaml:"server_url,omitempty"`
	MaxUploadMB int    `yaml:"max_upload_mb,omitempty"`
	Theme       string `yaml:"theme,omitempty"` // "light" or "dark"
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pdfchat"), nil
}

// ConfigPath returns the path of the config file inside dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// LoadConfig reads the config file from dir. A missing file yields the
// zero Config and no error.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the config file into dir, creating it if needed.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(dir), data, 0644)
}

// ResolveServerURL picks the backend URL by precedence:
// command-line flag, environment, config file, built-in default.
func ResolveServerURL(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(serverEnvVar); env != "" {
		return env
	}
	if cfg != nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return DefaultServerURL
}

// MaxUploadBytes returns the configured per-file ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) * 1024 * 1024
}
