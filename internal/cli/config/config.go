package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const ConfigFileName = "mcloud.json"

// Config is the project configuration file, discovered upward from the
// working directory so one file can serve a whole checkout.
type Config struct {
	// Server is the API base URL, e.g. "https://models.example.com/api".
	Server string `json:"server"`
	// TimeoutSeconds overrides the per-call timeout (default 30).
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
	// Log controls log level and format (console or json).
	Log LogConfig `json:"log,omitempty"`
}

// LogConfig holds logging-related configuration.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// DefaultConfig returns a configuration template for `mcloud init`.
func DefaultConfig() *Config {
	return &Config{
		Server: "",
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// FindConfigFile searches for mcloud.json in the current directory and
// its parents.
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// LoadFromCurrentDir loads config from the current directory or a
// parent. When no file exists, environment variables alone may still
// produce a usable config.
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		cfg := &Config{}
		cfg.applyEnv()
		if cfg.Server != "" {
			return cfg, nil
		}
		return nil, err
	}
	return Load(configPath)
}

// Save writes the configuration to a file.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv layers .env files and environment variables over the file
// values. Environment wins, for CI and one-off overrides.
func (c *Config) applyEnv() {
	// Fails silently if the files don't exist.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	if server := os.Getenv("MCLOUD_SERVER"); server != "" {
		c.Server = server
	}
	if timeout := os.Getenv("MCLOUD_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			c.TimeoutSeconds = seconds
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
