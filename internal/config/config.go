package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/preprints/internal/provider"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Addr         string `mapstructure:"addr" yaml:"addr"`
	Hostname     string `mapstructure:"hostname" yaml:"hostname"`
	RootURL      string `mapstructure:"root_url" yaml:"root_url"`
	PublicURL    string `mapstructure:"public_url" yaml:"public_url"`
	FBAppID      string `mapstructure:"fb_app_id" yaml:"fb_app_id"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`

	// Branded domains, matched in order against the hostname
	Providers []provider.Provider `mapstructure:"providers" yaml:"providers"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server
	ReadTimeoutSec     int `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec    int `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".preprints"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.preprints/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PREPRINTS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("addr", ":4200")
	v.SetDefault("hostname", "localhost")
	v.SetDefault("root_url", "/")
	v.SetDefault("public_url", "")
	v.SetDefault("fb_app_id", "")
	v.SetDefault("providers", []provider.Provider{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_format", "json")
	v.SetDefault("read_timeout_sec", 15)
	v.SetDefault("write_timeout_sec", 30)
	v.SetDefault("shutdown_timeout_sec", 10)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve data_dir default: ~/.preprints/data
	if c.DataDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	return &c, nil
}
