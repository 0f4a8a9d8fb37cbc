// Package config applies values from an optional YAML file and from
// environment variables to command-line flags that were not set explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix prefixes every environment variable bound to a flag.
const EnvPrefix = "TIMEPARSE"

// Load reads configuration into fs. An explicit file must exist; otherwise
// "<name>.yaml" in the working directory is used when present.
// Precedence: flags, environment, file, flag defaults.
func Load(name, file string, fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(name)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	return BindFlags(fs, v, EnvPrefix)
}

// BindFlags binds each flag to its viper key and applies the viper value to
// flags the user did not set.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper, envPrefix string) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores.
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			err = multierr.Append(err, v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)))
		}

		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		switch val := v.Get(f.Name).(type) {
		case []any:
			for _, item := range val {
				err = multierr.Append(err, fs.Set(f.Name, fmt.Sprintf("%v", item)))
			}
		default:
			err = multierr.Append(err, fs.Set(f.Name, fmt.Sprintf("%v", val)))
		}
	})
	return err
}
