package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Target struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"` // greenhouse | lever
	Slug     string `yaml:"slug"`
}

type Filters struct {
	Locations  []string `yaml:"locations"`
	Categories []string `yaml:"categories"`
}

type Config struct {
	App struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"app"`

	Scrape struct {
		UserAgent           string  `yaml:"user_agent"`
		TimeoutSeconds      int     `yaml:"timeout_seconds"`
		TargetDelaySeconds  int     `yaml:"target_delay_seconds"`
		RetryBackoffSeconds int     `yaml:"retry_backoff_seconds"`
		PerHostRPS          float64 `yaml:"per_host_rps"`
		Burst               int     `yaml:"burst"`
	} `yaml:"scrape"`

	Targets []Target `yaml:"targets"`
	Filters Filters  `yaml:"filters"`
}

func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(b))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.App.OutputDir == "" {
		c.App.OutputDir = "."
	}
	if c.Scrape.TimeoutSeconds <= 0 {
		c.Scrape.TimeoutSeconds = 15
	}
	if c.Scrape.TargetDelaySeconds <= 0 {
		c.Scrape.TargetDelaySeconds = 2
	}
	if c.Scrape.RetryBackoffSeconds <= 0 {
		c.Scrape.RetryBackoffSeconds = 2
	}
	if c.Scrape.PerHostRPS <= 0 {
		c.Scrape.PerHostRPS = 2
	}
	if c.Scrape.Burst <= 0 {
		c.Scrape.Burst = 1
	}
	if len(c.Targets) == 0 {
		c.Targets = defaultTargets()
	}
	if len(c.Filters.Locations) == 0 && len(c.Filters.Categories) == 0 {
		c.Filters = defaultFilters()
	}
}

func (c Config) Timeout() time.Duration      { return time.Duration(c.Scrape.TimeoutSeconds) * time.Second }
func (c Config) TargetDelay() time.Duration  { return time.Duration(c.Scrape.TargetDelaySeconds) * time.Second }
func (c Config) RetryBackoff() time.Duration { return time.Duration(c.Scrape.RetryBackoffSeconds) * time.Second }

// defaultTargets are boards known to sit on each platform; a user config
// normally replaces them.
func defaultTargets() []Target {
	return []Target{
		{Name: "Stripe", Platform: "greenhouse", Slug: "stripe"},
		{Name: "Lyft", Platform: "greenhouse", Slug: "lyft"},
		{Name: "GitLab", Platform: "greenhouse", Slug: "gitlab"},
		{Name: "Netflix", Platform: "lever", Slug: "netflix"},
		{Name: "Spotify", Platform: "lever", Slug: "spotify"},
		{Name: "Palantir", Platform: "lever", Slug: "palantir"},
	}
}

func defaultFilters() Filters {
	return Filters{
		Locations: []string{
			"remote", "worldwide", "global", "europe",
			"canada", "toronto", "montreal", "vancouver",
			"ireland", "dublin", "united kingdom", "london",
			"netherlands", "amsterdam", "france", "paris",
			"romania", "bucharest", "germany", "berlin",
			"sweden", "stockholm", "singapore", "malaysia",
			"kuala lumpur", "australia", "sydney", "melbourne",
			"new zealand",
		},
		Categories: []string{
			"engineer", "developer", "backend", "back end",
			"frontend", "front end", "fullstack", "full stack",
			"software", "platform", "infrastructure", "devops",
			"python", "javascript", "mobile", "ios", "android",
		},
	}
}
