package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.toml"

// MaxEdgesCeiling bounds graph.max_edges_limit.
const MaxEdgesCeiling = 10000

type ServerConfig struct {
	Port                   string   `toml:"port"`
	AllowedOrigins         []string `toml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

type DataConfig struct {
	Dir          string `toml:"dir"`
	DefaultInput string `toml:"default_input"`
}

type GraphConfig struct {
	DefaultMaxEdges   int  `toml:"default_max_edges"`
	MaxEdgesLimit     int  `toml:"max_edges_limit"`
	DetectCommunities bool `toml:"detect_communities"`
	LPAIterations     int  `toml:"lpa_iterations"`
}

type CatalogConfig struct {
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Graph   GraphConfig   `toml:"graph"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   "5090",
			AllowedOrigins:         []string{"*"},
			ShutdownTimeoutSeconds: 10,
		},
		Data: DataConfig{
			Dir:          "filtered_data",
			DefaultInput: "input_data/influencescores_testtreatsedge1.csv",
		},
		Graph: GraphConfig{
			DefaultMaxEdges:   1000,
			MaxEdgesLimit:     MaxEdgesCeiling,
			DetectCommunities: true,
			LPAIterations:     20,
		},
		Catalog: CatalogConfig{Workers: 4},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a TOML file on top of Default, so the file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides config values with environment variables when set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("DEFAULT_INPUT"); v != "" {
		c.Data.DefaultInput = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAX_EDGES_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_EDGES_LIMIT: %w", err)
		}
		c.Graph.MaxEdgesLimit = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Data.Dir == "" {
		return errors.New("data.dir is required")
	}
	if c.Graph.MaxEdgesLimit <= 0 || c.Graph.MaxEdgesLimit > MaxEdgesCeiling {
		return fmt.Errorf("graph.max_edges_limit must be in 1..%d, got %d", MaxEdgesCeiling, c.Graph.MaxEdgesLimit)
	}
	if c.Graph.DefaultMaxEdges <= 0 || c.Graph.DefaultMaxEdges > c.Graph.MaxEdgesLimit {
		return fmt.Errorf("graph.default_max_edges must be in 1..%d, got %d", c.Graph.MaxEdgesLimit, c.Graph.DefaultMaxEdges)
	}
	if c.Graph.LPAIterations < 0 {
		return fmt.Errorf("graph.lpa_iterations must not be negative, got %d", c.Graph.LPAIterations)
	}
	if c.Catalog.Workers <= 0 {
		return fmt.Errorf("catalog.workers must be positive, got %d", c.Catalog.Workers)
	}
	return nil
}
