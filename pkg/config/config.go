package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fluxorio/workq/pkg/workq"
)

// Config declares WorkQueue settings loadable from a YAML or JSON file.
// A zero or omitted limit means "unlimited"; negative values are rejected.
// This differs from the workq options, where a limit passed at all must be
// positive — the file format needs an in-band way to say "no limit".
type Config struct {
	Name       string `yaml:"name" json:"name"`
	MaxThreads int    `yaml:"max_threads" json:"max_threads"`
	MaxTasks   int    `yaml:"max_tasks" json:"max_tasks"`
}

// Load loads configuration from a file (YAML or JSON).
// Automatically detects file type by extension, defaulting to YAML.
func Load(path string) (Config, error) {
	var cfg Config

	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(path, &cfg)
	} else {
		err = LoadYAML(path, &cfg)
	}
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadWithEnv loads configuration from a file and applies environment
// variable overrides: PREFIX_NAME, PREFIX_MAX_THREADS, PREFIX_MAX_TASKS.
func LoadWithEnv(path string, prefix string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.ApplyEnvOverrides(prefix); err != nil {
		return Config{}, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overwrites fields from environment variables.
// An empty prefix defaults to WORKQ.
func (c *Config) ApplyEnvOverrides(prefix string) error {
	if prefix == "" {
		prefix = "WORKQ"
	}

	if v, ok := os.LookupEnv(prefix + "_NAME"); ok {
		c.Name = v
	}
	if v, ok := os.LookupEnv(prefix + "_MAX_THREADS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s_MAX_THREADS %q: %w", prefix, v, err)
		}
		c.MaxThreads = n
	}
	if v, ok := os.LookupEnv(prefix + "_MAX_TASKS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s_MAX_TASKS %q: %w", prefix, v, err)
		}
		c.MaxTasks = n
	}
	return nil
}

// Validate rejects negative limits
func (c *Config) Validate() error {
	if c.MaxThreads < 0 {
		return fmt.Errorf("max_threads must not be negative, got %d", c.MaxThreads)
	}
	if c.MaxTasks < 0 {
		return fmt.Errorf("max_tasks must not be negative, got %d", c.MaxTasks)
	}
	return nil
}

// Options translates the configuration into workq construction options.
// Zero limits translate to no option at all (unlimited).
func (c *Config) Options() []workq.Option {
	var opts []workq.Option
	if c.MaxThreads > 0 {
		opts = append(opts, workq.WithMaxThreads(c.MaxThreads))
	}
	if c.MaxTasks > 0 {
		opts = append(opts, workq.WithMaxTasks(c.MaxTasks))
	}
	return opts
}
