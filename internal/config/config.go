// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Inventory source kinds.
const (
	InventoryFromFile = "file"
	InventoryFromNATS = "nats"
)

// Config holds all configuration values for tradein.
type Config struct {
	DataDir            string            `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	LogLevel           string            `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFile            string            `mapstructure:"log_file" yaml:"log_file"`
	TaxonomyFile       string            `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`
	InventorySource    string            `mapstructure:"inventory_source" yaml:"inventory_source" validate:"oneof=file nats"`
	InventoryFile      string            `mapstructure:"inventory_file" yaml:"inventory_file"`
	AutoAdvance        bool              `mapstructure:"auto_advance" yaml:"auto_advance"`
	AutoAdvanceDelayMs int               `mapstructure:"auto_advance_delay_ms" yaml:"auto_advance_delay_ms" validate:"min=0,max=5000"`
	PhonePrefix        string            `mapstructure:"phone_prefix" yaml:"phone_prefix" validate:"required,startswith=+"`
	Showrooms          []string          `mapstructure:"showrooms" yaml:"showrooms" validate:"dive,required"`
	Prefill            map[string]string `mapstructure:"prefill" yaml:"prefill,omitempty"`
}

// DefaultShowrooms are offered when no showroom list is configured.
var DefaultShowrooms = []string{
	"Showroom Jakarta Selatan - Jl. TB Simatupang No. 12",
	"Showroom Tangerang - Jl. Boulevard Gading Serpong Blok M5",
	"Showroom Bekasi - Jl. Ahmad Yani No. 8",
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		DataDir:            ".tradein",
		LogLevel:           "info",
		InventorySource:    InventoryFromFile,
		AutoAdvance:        true,
		AutoAdvanceDelayMs: 150,
		PhonePrefix:        "+62 ",
		Showrooms:          append([]string(nil), DefaultShowrooms...),
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("tradein")

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("taxonomy_file", "")
	v.SetDefault("inventory_source", def.InventorySource)
	v.SetDefault("inventory_file", "")
	v.SetDefault("auto_advance", def.AutoAdvance)
	v.SetDefault("auto_advance_delay_ms", def.AutoAdvanceDelayMs)
	v.SetDefault("phone_prefix", def.PhonePrefix)
	v.SetDefault("showrooms", def.Showrooms)

	v.SetEnvPrefix("TRADEIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env values for keys absent from files.
	for _, key := range []string{
		"data_dir", "log_level", "log_file", "taxonomy_file",
		"inventory_source", "inventory_file", "auto_advance",
		"auto_advance_delay_ms", "phone_prefix",
	} {
		if err := v.BindEnv(key, "TRADEIN_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/tradein/tradein.yml or $XDG_CONFIG_HOME/tradein/tradein.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tradein", "tradein.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tradein", "tradein.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "tradein.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
