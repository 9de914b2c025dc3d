// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists the Userdesk configuration. Values are
// layered as defaults, config file, USERDESK_* environment variables and
// command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Directory    DirectoryConfig    `mapstructure:"directory" yaml:"directory"`
	Notification NotificationConfig `mapstructure:"notification" yaml:"notification"`
	Language     string             `mapstructure:"language" yaml:"language"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
	Audit        AuditConfig        `mapstructure:"audit" yaml:"audit"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
}

// DirectoryConfig points at the remote user-directory service.
type DirectoryConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NotificationConfig controls how long status messages stay visible.
type NotificationConfig struct {
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AuditConfig selects the database that records operator actions.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Type    string `mapstructure:"type" yaml:"type"`
	Dsn     string `mapstructure:"dsn" yaml:"dsn"`
}

// ServerConfig configures the bundled reference directory server.
type ServerConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

const (
	DefaultDirectoryURL         = "http://localhost:8080"
	DefaultDirectoryTimeout     = 10 * time.Second
	DefaultNotificationDuration = 5 * time.Second
)

// Defaults returns the default value for every configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"directory.url":         DefaultDirectoryURL,
		"directory.timeout":     DefaultDirectoryTimeout,
		"notification.duration": DefaultNotificationDuration,
		"language":              "en",
		"log.level":             "info",
		"log.file":              "",
		"audit.enabled":         true,
		"audit.type":            "sqlite",
		"audit.dsn":             "",
		"server.listen":         ":8080",
	}
}

// Validate checks values that would otherwise fail late at first use.
func (c Config) Validate() error {
	u, err := url.Parse(c.Directory.URL)
	if err != nil {
		return fmt.Errorf("invalid directory.url %q: %w", c.Directory.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid directory.url %q: scheme must be http or https", c.Directory.URL)
	}
	if c.Notification.Duration <= 0 {
		return fmt.Errorf("notification.duration must be positive, got %s", c.Notification.Duration)
	}
	switch c.Audit.Type {
	case "sqlite", "postgres", "mysql":
	default:
		if c.Audit.Enabled {
			return fmt.Errorf("unsupported audit.type %q", c.Audit.Type)
		}
	}
	return nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Userdesk")
		default: // Linux, macOS, etc.
			configDir = "/etc/userdesk"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "userdesk")
	}

	return filepath.Join(configDir, "userdesk.yaml"), nil
}

func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additional_config_file_path *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("userdesk")
	v.SetConfigType("yaml")

	// 3. An explicit --config path wins over the search paths.
	if additional_config_file_path != nil {
		v.SetConfigFile(*additional_config_file_path)
	}

	// 4. Add standard config locations
	userConfigPath, userErr := GetConfigPath(false)
	if userErr == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 5. Read in the primary config file. A zero-length user config counts
	// as missing so the caller rewrites it with defaults.
	notFound := false
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		notFound = true
	} else if additional_config_file_path == nil && isEmptyFile(v.ConfigFileUsed()) {
		notFound = true
	}

	// 6. Merge a `.userdesk.yaml` dotfile from the current directory.
	mergeDotfileConfig(v)

	// 7. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("userdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 8. Command-line flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if notFound {
		return c, viper.ConfigFileNotFoundError{}
	}
	return c, nil
}

func isEmptyFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}

// mergeDotfileConfig checks for a `.userdesk.yaml` file in the current directory
// and merges it into the viper configuration if found.
func mergeDotfileConfig(v *viper.Viper) {
	dotfile := ".userdesk.yaml"
	if _, err := os.Stat(dotfile); err == nil {
		used := v.ConfigFileUsed()
		v.SetConfigFile(dotfile)
		// A malformed dotfile must not break startup.
		_ = v.MergeInConfig()
		v.SetConfigFile(used)
	}
}

func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo marshals c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
