//Package config loads the goreport settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/goreport/internal/logging"
	"gopkg.in/yaml.v3"
)

//DefaultFile is the configuration file Load looks for in the working directory.
const DefaultFile = "goreport.yaml"

//Config contains all goreport settings. Command line flags override them.
type Config struct {
	//Fields is the column layout of tables without a "#!" declaration.
	Fields []string `json:"fields" yaml:"fields"`

	//Observable is the observable aggregated when none is given.
	Observable string `json:"observable" yaml:"observable"`

	//Drop is the number of leading records discarded as equilibration
	//in the blue moon and blocking analyses.
	Drop int `json:"drop" yaml:"drop"`

	//BinWidth is the collective variable bin width for binned integration.
	BinWidth float64 `json:"bin_width" yaml:"bin_width"`

	//Interval is the number of steps between running blue moon estimates. 0 means only the final one.
	Interval int `json:"interval" yaml:"interval"`

	//Strict rejects table rows with more columns than declared.
	Strict bool `json:"strict" yaml:"strict"`

	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

//LoggingConfig configures the operational log on stderr.
type LoggingConfig struct {
	//Level is "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

//Default returns a Config with the defaults.
func Default() *Config {
	return &Config{
		Fields:     []string{"step", "time", "energy"},
		Observable: "energy",
		Drop:       0,
		BinWidth:   0.1,
		Interval:   0,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

//Load loads the configuration from the default file, if it exists, and the environment.
//Order: defaults -> ./goreport.yaml -> environment variables.
func Load() (*Config, error) {
	config := Default()
	if _, err := os.Stat(DefaultFile); err == nil {
		fileConfig, err := LoadFromFile(DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}
	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

//LoadFromFile loads the configuration from a YAML file. Keys not in the file keep
//their defaults. Environment variables are not applied.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return config, nil
}

//Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Fields) == 0 || c.Fields[0] != "step" {
		return fmt.Errorf("fields must start with step, got %v", c.Fields)
	}
	if c.Drop < 0 {
		return fmt.Errorf("drop must be non-negative, got %d", c.Drop)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be non-negative, got %d", c.Interval)
	}
	if c.BinWidth <= 0 {
		return fmt.Errorf("bin_width must be positive, got %g", c.BinWidth)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, or empty for default)", c.Logging.Level)
	}
	return nil
}

//applyEnvOverrides applies the GOREPORT_* environment variables to the config.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("GOREPORT_FIELDS"); v != "" {
		config.Fields = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v := os.Getenv("GOREPORT_OBSERVABLE"); v != "" {
		config.Observable = v
	}
	if v := os.Getenv("GOREPORT_DROP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GOREPORT_DROP: %w", err)
		}
		config.Drop = n
	}
	if v := os.Getenv("GOREPORT_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GOREPORT_INTERVAL: %w", err)
		}
		config.Interval = n
	}
	if v := os.Getenv("GOREPORT_BIN_WIDTH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GOREPORT_BIN_WIDTH: %w", err)
		}
		config.BinWidth = f
	}
	if v := os.Getenv("GOREPORT_STRICT"); v != "" {
		config.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("GOREPORT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	return nil
}
