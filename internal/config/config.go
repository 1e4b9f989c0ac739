package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all run settings. It is loaded once, validated before any
// fetch, and passed around as an immutable value.
type Config struct {
	// Organization owning the configured repositories. Empty means every
	// repository string must be owner/name.
	Organization string `mapstructure:"organization" yaml:"organization"`

	// Repositories to analyze: bare names (resolved against Organization)
	// or owner/name strings.
	Repositories []string `mapstructure:"repositories" yaml:"repositories"`

	// Branches narrows the analyzed branch set. Empty means all branches.
	Branches []string `mapstructure:"branches" yaml:"branches"`

	// TimeRanges are the named analysis windows. Empty means one implicit
	// all-time window.
	TimeRanges []TimeRange `mapstructure:"time_ranges" yaml:"time_ranges"`

	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// TimeRange is a named, inclusive ISO calendar-date range
type TimeRange struct {
	Name      string `mapstructure:"name" yaml:"name"`
	StartDate string `mapstructure:"start_date" yaml:"start_date"`
	EndDate   string `mapstructure:"end_date" yaml:"end_date"`
}

type GitHubConfig struct {
	Token          string `mapstructure:"token" yaml:"token,omitempty"`
	RateLimit      int    `mapstructure:"rate_limit" yaml:"rate_limit"`           // requests per second
	MaxConcurrency int    `mapstructure:"max_concurrency" yaml:"max_concurrency"` // parallel branch fetches
}

type OutputConfig struct {
	JSONPath  string `mapstructure:"json_path" yaml:"json_path,omitempty"`
	ExcelPath string `mapstructure:"excel_path" yaml:"excel_path,omitempty"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			RateLimit:      5,
			MaxConcurrency: 4,
		},
	}
}

// Load loads configuration from file, environment, and .env files
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("output", cfg.Output)

	v.SetEnvPrefix("COMMITSCOPE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("commitscope")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".config", "commitscope"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".config", "commitscope", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = n
		}
	}
}
