// Package config loads autodev settings from flags, AUTODEV_* environment
// variables and an optional .autodev.yaml file in the project root.
package config

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/djnsty23/claude-auto-dev/pkg/project"
	"github.com/djnsty23/claude-auto-dev/pkg/validate"
)

const (
	// EnvPrefix is the prefix of every environment variable read by autodev
	EnvPrefix = "AUTODEV"
	// FileName is the config file name looked up in the project root, without extension
	FileName = ".autodev"
)

// Config is the resolved autodev configuration
type Config struct {
	Root      string         `mapstructure:"root" yaml:"root"`
	Format    string         `mapstructure:"format" yaml:"format"`
	Color     string         `mapstructure:"color" yaml:"color"`
	Quiet     bool           `mapstructure:"quiet" yaml:"quiet"`
	LogLevel  string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string         `mapstructure:"log_format" yaml:"log_format"`
	Paths     project.Layout `mapstructure:"paths" yaml:"paths"`
}

// New returns a viper instance with autodev defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default value of every config key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("format", string(validate.FormatText))
	v.SetDefault("color", "auto")
	v.SetDefault("quiet", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	for key, value := range project.DefaultLayout().Paths() {
		v.SetDefault("paths."+key, value)
	}
}

// Load reads the config file and decodes the merged settings. An explicit
// configFile must exist; otherwise .autodev.yaml in the project root is
// optional. The root itself is never taken from the config file.
func Load(v *viper.Viper, configFile string) (Config, error) {
	var config Config
	root := v.GetString("root")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return config, errors.Wrap(err, "failed to read config file")
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}
	config.Root = root

	return config, nil
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var result *multierror.Error

	if _, err := validate.ParseFormat(c.Format); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Errorf("invalid log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		result = multierror.Append(result, errors.Errorf("invalid log format %q", c.LogFormat))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		result = multierror.Append(result, errors.Errorf("invalid color mode %q", c.Color))
	}

	paths := c.Paths.Paths()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := validatePath(paths[key]); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "paths.%s", key))
		}
	}

	return result.ErrorOrNil()
}

func validatePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("must not be empty")
	}

	slashed := filepath.ToSlash(strings.ReplaceAll(p, `\`, "/"))
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return errors.Errorf("%q must be relative to the project root", p)
	}

	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return errors.Errorf("%q escapes the project root", p)
	}
	return nil
}
