package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	BaseURL     string `json:"base_url"`
	DataDir     string `json:"data_dir"`
	LogLevel    string `json:"log_level"`
	HTTPTimeout int    `json:"http_timeout_seconds"`
	PageSize    int    `json:"page_size"`
}

func defaults() *Config {
	return &Config{
		BaseURL:     "https://eventify-engine.vercel.app",
		DataDir:     filepath.Join(os.Getenv("HOME"), ".eventify"),
		LogLevel:    "info",
		HTTPTimeout: 30,
		PageSize:    8,
	}
}

func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	// Override from env (highest precedence)
	if baseURL := os.Getenv("EVENTIFY_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dataDir := os.Getenv("EVENTIFY_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level := os.Getenv("EVENTIFY_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// loadFile reads the config file over the defaults, writing the defaults
// out on first use. Env overrides are not applied here.
func loadFile(path string) (*Config, error) {
	cfg := defaults()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save writes the config to path atomically, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func writeDefaults(path string, cfg *Config) error {
	return Save(path, cfg)
}
