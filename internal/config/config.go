package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int `yaml:"port"`
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Provider struct {
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		SlotIntervalMinutes int `yaml:"slot_interval_minutes"`
		// MinAdvanceMinutes and MaxAdvanceDays add clinic-level limits
		// on top of the standard date checks; zero disables them.
		MinAdvanceMinutes int `yaml:"min_advance_minutes"`
		MaxAdvanceDays    int `yaml:"max_advance_days"`
	} `yaml:"booking"`

	Meeting struct {
		PollIntervalSeconds      int `yaml:"poll_interval_seconds"`
		CountdownIntervalSeconds int `yaml:"countdown_interval_seconds"`
		LookaheadHours           int `yaml:"lookahead_hours"`
	} `yaml:"meeting"`

	Timezone string `yaml:"timezone"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/medibook.db"
	}
	if cfg.Booking.SlotIntervalMinutes <= 0 {
		cfg.Booking.SlotIntervalMinutes = 30
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SlotInterval returns the configured slot granularity.
func (c *Config) SlotInterval() time.Duration {
	return time.Duration(c.Booking.SlotIntervalMinutes) * time.Minute
}

// ProviderTimeout returns the upstream HTTP timeout.
func (c *Config) ProviderTimeout() time.Duration {
	if c.Provider.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// Location resolves the configured timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
