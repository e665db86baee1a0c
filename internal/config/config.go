// Package config resolves command settings from flags, environment variables
// and an optional YAML config file.
//
// Precedence, highest first: flags set on the command line, SBOM_RECONCILE_*
// environment variables, the config file, flag defaults. Keys are the flag
// names, e.g. "tree-format" or SBOM_RECONCILE_TREE_FORMAT.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "SBOM_RECONCILE"
	DefaultConfigName = ".sbom-reconcile"
)

// Compare holds the settings of the compare command.
type Compare struct {
	Tree         string `mapstructure:"tree"`
	SBOM         string `mapstructure:"sbom"`
	Output       string `mapstructure:"output"`
	TreeFormat   string `mapstructure:"tree-format"`
	ReportFormat string `mapstructure:"report-format"`
	PurlType     string `mapstructure:"purl-type"`
	Verbose      bool   `mapstructure:"verbose"`
}

// Convert holds the settings of the convert command.
type Convert struct {
	Input   string `mapstructure:"input"`
	From    string `mapstructure:"from"`
	Output  string `mapstructure:"output"`
	Verbose bool   `mapstructure:"verbose"`
}

// New returns a viper instance bound to flags. When configFile is empty,
// ./.sbom-reconcile.yaml is read if it exists; an explicitly named file must
// exist.
func New(flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("cannot bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	return v, nil
}

// Load resolves settings for flags into out, a pointer to Compare or Convert.
func Load(flags *pflag.FlagSet, configFile string, out any) error {
	v, err := New(flags, configFile)
	if err != nil {
		return err
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("cannot decode configuration: %w", err)
	}
	return nil
}
