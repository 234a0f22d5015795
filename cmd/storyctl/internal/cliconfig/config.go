package cliconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/couplestory/pkg/storyclient"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	LogLevel string        `yaml:"log_level"`
}

type ServerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UploadTimeout  time.Duration `yaml:"upload_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8081",
			RequestTimeout: storyclient.DefaultRequestTimeout,
			UploadTimeout:  storyclient.DefaultUploadTimeout,
		},
		CacheTTL: 5 * time.Minute,
		LogLevel: "warn",
	}
}

/*
DefaultPath is where storyctl looks for a config file when --config is not
given.
*/
func DefaultPath() string {
	dir, err := os.UserConfigDir()

	if err != nil {
		return ""
	}

	return filepath.Join(dir, "storyctl", "config.yaml")
}

/*
LoadFromFile reads a YAML config on top of the defaults, so a file only needs
the values it changes.
*/
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()

	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	return config, nil
}

/*
Load uses path when given. Otherwise the default location is tried and a
missing file there is not an error.
*/
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}

	defaultPath := DefaultPath()

	if defaultPath == "" {
		return DefaultConfig(), nil
	}

	config, err := LoadFromFile(defaultPath)

	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return config, err
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("server.base_url is required")
	}

	u, err := url.Parse(c.Server.BaseURL)

	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url must be an http or https URL, got %q", c.Server.BaseURL)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}

	if c.Server.UploadTimeout <= 0 {
		return fmt.Errorf("server.upload_timeout must be positive")
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn or error, got %q", c.LogLevel)
	}

	return nil
}
