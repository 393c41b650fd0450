package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret        string `yaml:"secret"`
		ExpiryMinutes int    `yaml:"expiryMinutes"`
	} `yaml:"jwt"`

	Geocoding struct {
		BaseURL        string `yaml:"baseUrl"`
		UserAgent      string `yaml:"userAgent"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"geocoding"`

	Uploads struct {
		Dir string `yaml:"dir"`
	} `yaml:"uploads"`

	RateLimit struct {
		PerMinute int `yaml:"perMinute"`
	} `yaml:"rateLimit"`

	Log struct {
		Level      string `yaml:"level"`
		Path       string `yaml:"path"`
		MaxSizeMB  int    `yaml:"maxSizeMb"`
		MaxBackups int    `yaml:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
}

// LoadConfig reads the configuration file and applies defaults for
// anything the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.JWT.ExpiryMinutes == 0 {
		c.JWT.ExpiryMinutes = 60
	}
	if c.Geocoding.BaseURL == "" {
		c.Geocoding.BaseURL = "https://nominatim.openstreetmap.org/search"
	}
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = "HangoutSpots/1.0"
	}
	if c.Geocoding.TimeoutSeconds == 0 {
		c.Geocoding.TimeoutSeconds = 5
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
