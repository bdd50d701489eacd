package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the fuzzy search process.
type ServerConfig struct {
	Port         string               `yaml:"port"`           // HTTP port (e.g., "8080")
	Workers      int                  `yaml:"workers"`        // Shard workers per match call; defaults to the number of CPUs
	LogLevel     string               `yaml:"log_level"`      // debug, info, warn or error
	Scheme       string               `yaml:"scheme"`         // Scoring scheme: default, path or history
	MaxBodyBytes int64                `yaml:"max_body_bytes"` // Request body limit for the HTTP API
	Collections  []CollectionSettings `yaml:"collections"`    // Collections created at startup
}

// LoadServerConfig reads a YAML config file. An empty path returns the defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.ApplyDefaults()
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid config: %v", problems)
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (cfg *ServerConfig) ApplyDefaults() {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "default"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	for i := range cfg.Collections {
		cfg.Collections[i].ApplyDefaults()
	}
}

// Validate returns a list of problems with the configuration.
func (cfg *ServerConfig) Validate() []string {
	var problems []string

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "Invalid log_level '"+cfg.LogLevel+"' (must be debug, info, warn or error)")
	}
	switch cfg.Scheme {
	case "default", "path", "history":
	default:
		problems = append(problems, "Invalid scheme '"+cfg.Scheme+"' (must be default, path or history)")
	}

	seen := make(map[string]bool)
	for _, collection := range cfg.Collections {
		problems = append(problems, collection.Validate()...)
		if seen[collection.Name] {
			problems = append(problems, "Duplicate collection '"+collection.Name+"' found in collections")
		}
		seen[collection.Name] = true
	}

	return problems
}
