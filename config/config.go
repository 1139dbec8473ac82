package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file Load falls back to when no path is given.
const DefaultFile = "web.yml"

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Templates TemplatesConfig `yaml:"templates"`
	Site      SiteConfig      `yaml:"site"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type HTTPConfig struct {
	Dir  string `yaml:"dir"`  // Directory with static assets, served from disk in dev mode
	Port string `yaml:"port"` // Port to listen on
}

type TemplatesConfig struct {
	Dir string `yaml:"dir"` // Directory with page templates, parsed from disk in dev mode
}

type SiteConfig struct {
	Name  string `yaml:"name"`  // Service name reported by the info API
	Title string `yaml:"title"` // Page title used by the base layout
	Env   string `yaml:"env"`   // "dev" or "prod"
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`   // Requests per second per client; <= 0 disables limiting
	Burst int     `yaml:"burst"` // Burst size per client
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// defaults holds the built-in configuration values which can be overridden by
// a config file and by environment variables.
func defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Dir:  "./public",
			Port: "8080",
		},
		Templates: TemplatesConfig{
			Dir: "./templates",
		},
		Site: SiteConfig{
			Name:  "web",
			Title: "Info",
			Env:   "prod",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in that order of precedence. An empty path falls back to
// DefaultFile when it exists; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault returns the configuration without an explicit config file.
func LoadDefault() (*Config, error) {
	return Load("")
}

// Dev reports whether the application runs in dev mode.
func (c *Config) Dev() bool {
	return c.Site.Env == "dev"
}

// Validate checks the configuration for values that cannot be served.
func (c *Config) Validate() error {
	if c.Site.Env != "dev" && c.Site.Env != "prod" {
		return fmt.Errorf("invalid site env %q (want dev or prod)", c.Site.Env)
	}
	if c.HTTP.Port == "" {
		return fmt.Errorf("http port must not be empty")
	}
	if _, err := strconv.Atoi(c.HTTP.Port); err != nil {
		return fmt.Errorf("invalid http port %q: %w", c.HTTP.Port, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Dir = getEnv("HTTP_DIR", cfg.HTTP.Dir)
	cfg.HTTP.Port = getEnv("HTTP_PORT", cfg.HTTP.Port)
	cfg.Templates.Dir = getEnv("TEMPLATES_DIR", cfg.Templates.Dir)
	cfg.Site.Name = getEnv("SITE_NAME", cfg.Site.Name)
	cfg.Site.Title = getEnv("SITE_TITLE", cfg.Site.Title)
	cfg.Site.Env = getEnv("SITE_ENV", cfg.Site.Env)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if value, exists := os.LookupEnv("RATE_LIMIT_RPS"); exists {
		if rps, err := strconv.ParseFloat(value, 64); err == nil {
			cfg.RateLimit.RPS = rps
		}
	}
	if value, exists := os.LookupEnv("RATE_LIMIT_BURST"); exists {
		if burst, err := strconv.Atoi(value); err == nil {
			cfg.RateLimit.Burst = burst
		}
	}
}

// getEnv returns the value of the environment variable key if it exists, otherwise it returns the fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
