// Package config loads application settings from an optional YAML file with
// environment-variable overrides, and validates them up front so a bad
// deployment fails at startup instead of at first query.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address (env COLSTATS_ADDR).
	Addr string `yaml:"addr"`
}

// DataConfig points at the registry workbook deliveries.
type DataConfig struct {
	// Dir is the directory holding the three workbooks (env COLSTATS_DATA_DIR).
	Dir string `yaml:"dir"`

	MortalityFile  string `yaml:"mortality_file"`
	MortalitySheet string `yaml:"mortality_sheet"`
	CauseFile      string `yaml:"cause_file"`
	DivisionFile   string `yaml:"division_file"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (env COLSTATS_LOG_LEVEL).
	Level string `yaml:"level"`
}

// Default returns the configuration matching the registry's 2019 delivery.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Data: DataConfig{
			Dir:            "data",
			MortalityFile:  "Anexo1.NoFetal2019_CE_15-03-23.xlsx",
			MortalitySheet: "No_Fetales_2019",
			CauseFile:      "Anexo2.CodigosDeMuerte_CE_15-03-23.xlsx",
			DivisionFile:   "Divipola_CE_.xlsx",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load merges defaults, an optional YAML file and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COLSTATS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("COLSTATS_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("COLSTATS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations that cannot possibly serve.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	for name, v := range map[string]string{
		"data.mortality_file":  c.Data.MortalityFile,
		"data.mortality_sheet": c.Data.MortalitySheet,
		"data.cause_file":      c.Data.CauseFile,
		"data.division_file":   c.Data.DivisionFile,
	} {
		if v == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
