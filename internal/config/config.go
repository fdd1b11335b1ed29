// Package config loads and validates the site configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration.
type Config struct {
	Site          SiteConfig    `yaml:"site"`
	Content       ContentConfig `yaml:"content"`
	Output        OutputConfig  `yaml:"output"`
	Serve         ServeConfig   `yaml:"serve"`
	Notifications NotifyConfig  `yaml:"notifications,omitempty"`
}

// SiteConfig holds site-wide values exposed to templates.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// ContentConfig describes where documents and layouts live and how they are
// interpreted.
type ContentConfig struct {
	Dir        string `yaml:"dir"`
	LayoutsDir string `yaml:"layouts_dir,omitempty"`
	StaticDir  string `yaml:"static_dir,omitempty"`

	PostLayout string `yaml:"post_layout,omitempty"`
	PageLayout string `yaml:"page_layout,omitempty"`

	// UseGitDates fills document modification times from git history.
	UseGitDates bool `yaml:"use_git_dates,omitempty"`
}

// OutputConfig describes the destination directory and build bookkeeping.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`

	// CachePath is the SQLite build cache; empty disables caching.
	CachePath string `yaml:"cache_path,omitempty"`
}

// ServeConfig holds preview server options.
type ServeConfig struct {
	Port int `yaml:"port,omitempty"`

	// RebuildEvery is a duration string for scheduled rebuilds ("15m");
	// empty disables the scheduler.
	RebuildEvery string `yaml:"rebuild_every,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `yaml:"metrics,omitempty"`
}

// NotifyConfig configures the optional build-event publisher.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads configuration from the specified file, expands environment
// variables, and applies defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "A Personal Site"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "content"
	}
	if c.Content.LayoutsDir == "" {
		c.Content.LayoutsDir = "layouts"
	}
	if c.Content.PostLayout == "" {
		c.Content.PostLayout = "post"
	}
	if c.Content.PageLayout == "" {
		c.Content.PageLayout = "page"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "public"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 8080
	}
	if c.Notifications.Subject == "" {
		c.Notifications.Subject = "stanza.builds"
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Blog",
			Description: "Notes and posts",
			BaseURL:     "https://example.com",
		},
		Content: ContentConfig{
			Dir:        "content",
			LayoutsDir: "layouts",
			StaticDir:  "static",
		},
		Output: OutputConfig{
			Directory: "public",
			Clean:     true,
			CachePath: ".stanza-cache.db",
		},
		Serve: ServeConfig{Port: 8080},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
