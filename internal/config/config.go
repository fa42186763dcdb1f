// Package config loads run settings from .idehint.yml, IDEHINT_* environment
// variables and a .env file in the application root.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/toyz/idehint/internal/entity"
	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/introspect"
	"github.com/toyz/idehint/internal/registry"
	"github.com/toyz/idehint/internal/utils"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "IDEHINT"

// FileName is the config file looked up in the application root
const FileName = ".idehint"

// Config holds the settings of one run
type Config struct {
	AppRoot            string `mapstructure:"app_root"`
	AppNamespace       string `mapstructure:"app_namespace"`
	Plugin             string `mapstructure:"plugin"`
	Verbose            bool   `mapstructure:"verbose"`
	Quiet              bool   `mapstructure:"quiet"`
	Remove             bool   `mapstructure:"remove"`
	DryRun             bool   `mapstructure:"dry_run"`
	Manifest           string `mapstructure:"manifest"`
	BaseController     string `mapstructure:"base_controller"`
	FrameworkNamespace string `mapstructure:"framework_namespace"`
	CacheSize          int    `mapstructure:"cache_size"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		AppRoot:            ".",
		AppNamespace:       registry.DefaultAppNamespace,
		BaseController:     introspect.DefaultBaseController,
		FrameworkNamespace: introspect.DefaultFrameworkNamespace,
		CacheSize:          entity.DefaultCacheSize,
	}
}

// Load reads the configuration. configFile overrides the lookup of
// .idehint.yml in appRoot; an explicit file must exist.
func Load(configFile, appRoot string) (*Config, error) {
	if appRoot == "" {
		appRoot = "."
	}

	envFile := filepath.Join(appRoot, ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapConfigurationError(envFile, "load", err)
	}

	v := viper.New()
	setDefaults(v, appRoot)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(appRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			source := configFile
			if source == "" {
				source = filepath.Join(appRoot, FileName+".yml")
			}
			return nil, errors.WrapConfigurationError(source, "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(v.ConfigFileUsed(), "decode", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, appRoot string) {
	d := Default()
	v.SetDefault("app_root", appRoot)
	v.SetDefault("app_namespace", d.AppNamespace)
	v.SetDefault("plugin", "")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("remove", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("manifest", "")
	v.SetDefault("base_controller", d.BaseController)
	v.SetDefault("framework_namespace", d.FrameworkNamespace)
	v.SetDefault("cache_size", d.CacheSize)
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if err := utils.PluginName("plugin")(c.Plugin); err != nil {
		return errors.WrapConfigurationError("plugin", "validate", err)
	}
	if c.Verbose && c.Quiet {
		return errors.Newf(errors.ConfigurationErrorCode, "verbose and quiet cannot both be set").
			WithSuggestion("Drop one of --verbose / --quiet")
	}
	if c.CacheSize < 0 {
		return errors.Newf(errors.ConfigurationErrorCode, "cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// ControllerPath is the default directory to annotate: the application's
// controllers, or the configured plugin's
func (c *Config) ControllerPath() string {
	if c.Plugin != "" {
		return filepath.Join(c.AppRoot, "plugins", c.Plugin, "src", "Controller")
	}
	return filepath.Join(c.AppRoot, "src", "Controller")
}

// ManifestPath resolves the manifest relative to the application root
func (c *Config) ManifestPath() string {
	if c.Manifest == "" || filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.AppRoot, c.Manifest)
}

// DiagnosticLevel maps the verbosity flags onto an output level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

// IntrospectConfig returns the introspector settings
func (c *Config) IntrospectConfig() introspect.Config {
	return introspect.Config{
		Plugin:             c.Plugin,
		Verbose:            c.Verbose,
		BaseController:     c.BaseController,
		FrameworkNamespace: c.FrameworkNamespace,
	}
}
