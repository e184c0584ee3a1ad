// Package config loads server configuration from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/taigrr/filemove-mcp/internal/types"
)

// Configuration keys, shared by the config file, prefixed environment
// variables, and command-line overrides.
const (
	KeyRoot            = "root"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyIgnoredPatterns = "ignored_patterns"
)

// Configuration is the resolved server configuration.
type Configuration struct {
	Root      string `mapstructure:"root" yaml:"root"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	types.PathFilterConfig `mapstructure:",squash" yaml:",inline"`
}

// Defaults returns the values used when nothing else sets a key.
func Defaults() map[string]any {
	return map[string]any{
		KeyRoot:            "",
		KeyLogLevel:        "info",
		KeyLogFormat:       "structured",
		KeyIgnoredPatterns: []string{},
	}
}

// Loader wraps viper to read a named config file plus prefixed environment overrides.
type Loader struct {
	name        string
	fileType    string
	envPrefix   string
	searchPaths []string
}

// NewLoader creates a loader searching searchPaths for name.fileType.
func NewLoader(name, fileType, envPrefix string, searchPaths []string) *Loader {
	return &Loader{
		name:        name,
		fileType:    fileType,
		envPrefix:   envPrefix,
		searchPaths: append([]string(nil), searchPaths...),
	}
}

// Load resolves configuration. An explicit file path must exist; a missing file
// found only by searching is not an error. The returned string is the file used, if any.
func (l *Loader) Load(explicitFile string, overrides map[string]any) (Configuration, string, error) {
	v := viper.New()
	v.SetConfigName(l.name)
	v.SetConfigType(l.fileType)
	for _, p := range l.searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return Configuration{}, "", fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Configuration
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Configuration{}, "", fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.resolveRoot(); err != nil {
		return Configuration{}, "", err
	}

	return cfg, v.ConfigFileUsed(), nil
}

// resolveRoot falls back to the working directory and makes the root absolute.
func (c *Configuration) resolveRoot() error {
	root := strings.TrimSpace(c.Root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	c.Root = abs
	return nil
}
