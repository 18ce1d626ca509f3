// Package config loads the driver settings consumed by the payment manager.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/eamirgh/gopay/payment"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	// Default is the driver used when neither the caller nor the invoice names one.
	Default string `yaml:"default"`
	// Drivers holds one settings block per driver name.
	Drivers map[string]payment.Settings `yaml:"drivers"`
	// Map binds each driver name to a registered implementation.
	Map  map[string]string `yaml:"map"`
	HTTP HTTPConfig        `yaml:"http"`
	Log  LogConfig         `yaml:"log"`
}

// Default returns the built-in configuration: both drivers in production mode.
func Default() *Config {
	cfg := &Config{
		Default: "zarinpal",
		Drivers: map[string]payment.Settings{
			"zarinpal": {
				"merchant_id":  "",
				"sandbox":      false,
				"callback_url": "http://yoursite.com/path/to",
				"description":  "payment using zarinpal",
			},
			"zibal": {
				"merchant":     "",
				"sandbox":      false,
				"callback_url": "http://yoursite.com/path/to",
				"description":  "payment using zibal",
			},
		},
	}
	setDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	setDefaults(&cfg)
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Drivers == nil {
		cfg.Drivers = map[string]payment.Settings{}
	}
	// every configured driver maps to the implementation of the same name unless told otherwise
	if cfg.Map == nil {
		cfg.Map = map[string]string{}
	}
	for name := range cfg.Drivers {
		if _, ok := cfg.Map[name]; !ok {
			cfg.Map[name] = name
		}
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}
