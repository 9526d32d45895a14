package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DocumentPath  string        `yaml:"document"`
	Frames        int           `yaml:"frames"` // 0 runs until the context is cancelled
	FrameInterval time.Duration `yaml:"frame_interval"`

	SwapChainWidth  uint32 `yaml:"swapchain_width"`
	SwapChainHeight uint32 `yaml:"swapchain_height"`

	LogFormat       string `yaml:"log_format"`
	LogLevel        string `yaml:"log_level"`
	HealthcheckPort int    `yaml:"healthcheck_port"`

	EditorURL       string `yaml:"editor_url"`
	EditorNamespace string `yaml:"editor_namespace"`

	Watch bool `yaml:"watch"`
}

// DefaultConfig returns the configuration used when neither a config file
// nor flags set a value.
func DefaultConfig() Config {
	return Config{
		Frames:          1,
		LogFormat:       "text",
		LogLevel:        "info",
		EditorNamespace: "/",
	}
}

// LoadConfigFile reads a YAML config file on top of DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DocumentPath == "" {
		return nil, errors.New("document path is a required configuration field and cannot be empty")
	}
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}
	if cfg.FrameInterval < 0 {
		return nil, fmt.Errorf("frame interval must not be negative, got %s", cfg.FrameInterval)
	}
	if (cfg.SwapChainWidth == 0) != (cfg.SwapChainHeight == 0) {
		return nil, errors.New("swap-chain width and height must be set together")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
