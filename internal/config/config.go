package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Graph store connection
	Graph GraphConfig `yaml:"graph"`

	// Engine tuning
	Engine EngineConfig `yaml:"engine"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type GraphConfig struct {
	URI      string  `yaml:"uri"`
	User     string  `yaml:"user"`
	Password string  `yaml:"password"`
	Database string  `yaml:"database"`
	Workers  int     `yaml:"workers"` // fixed worker-pool size for blocking round trips
	RPS      float64 `yaml:"rps"`     // submission rate limit, 0 disables
}

type EngineConfig struct {
	MaxParallel int `yaml:"max_parallel"` // per-batch record fan-out bound
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
			Workers:  8,
		},
		Engine: EngineConfig{
			MaxParallel: 8,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from an optional YAML file, with environment
// variables taking precedence. A missing file falls back to defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("graph", cfg.Graph)
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("log", cfg.Log)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the engine cannot run without.
func (c *Config) Validate() error {
	if c.Graph.URI == "" {
		return fmt.Errorf("graph.uri is required")
	}
	if c.Graph.User == "" || c.Graph.Password == "" {
		return fmt.Errorf("graph credentials are required (set NEO4J_USER / NEO4J_PASSWORD)")
	}
	if c.Graph.Workers <= 0 {
		c.Graph.Workers = Default().Graph.Workers
	}
	if c.Engine.MaxParallel <= 0 {
		c.Engine.MaxParallel = Default().Engine.MaxParallel
	}
	return nil
}

// loadEnvFiles loads .env files in order of precedence. Missing files are
// fine; credentials never live in the repo.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Graph.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Graph.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" {
		cfg.Graph.Database = v
	}
	if v := os.Getenv("LABREST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
