package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from YAML with environment
// fallbacks for the fields operators most often override.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`

	Draft struct {
		TickIntervalSec  int `yaml:"tick_interval_sec"`
		AutoPickGraceSec int `yaml:"auto_pick_grace_sec"`
	} `yaml:"draft"`

	Scoring struct {
		RunHourUTC int `yaml:"run_hour_utc"`
	} `yaml:"scoring"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.NATS.URL = "nats://localhost:4222"
	cfg.NATS.SubjectPrefix = "draft"
	cfg.Draft.TickIntervalSec = 5
	cfg.Draft.AutoPickGraceSec = 2
	cfg.Scoring.RunHourUTC = 4
	return cfg
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		cfg.NATS.URL = url
	}
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}

func (c *Config) tickInterval() time.Duration {
	return time.Duration(c.Draft.TickIntervalSec) * time.Second
}

func (c *Config) autoPickGrace() time.Duration {
	return time.Duration(c.Draft.AutoPickGraceSec) * time.Second
}
