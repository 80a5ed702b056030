// Package config provides configuration management for plategen using
// Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with PLATEGEN_ prefix, and validation. It manages the workspace
// base directory, the dev server settings, and generation options like the
// historical blank-line compatibility mode.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/plategen/internal/errors"
)

type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Server    ServerConfig    `yaml:"server"`
	Generate  GenerateConfig  `yaml:"generate"`
	Watch     WatchConfig     `yaml:"watch"`
}

type WorkspaceConfig struct {
	// BaseDir is the root under which per-session build directories are
	// created (<base_dir>/build/<session-id>). Threaded explicitly into
	// every component instead of living in process-global state.
	BaseDir string `yaml:"base_dir"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type GenerateConfig struct {
	// ScaffoldDir is where template source files live.
	ScaffoldDir string `yaml:"scaffold_dir"`
	// Blueprint is the path to the YAML generation recipe.
	Blueprint string `yaml:"blueprint"`
	// CompatBlankLines reproduces the historical indentation behavior that
	// discards blank lines from injected source instead of preserving them.
	CompatBlankLines bool `yaml:"compat_blank_lines"`
}

type WatchConfig struct {
	// DebounceMs groups rapid scaffold changes into one regeneration.
	DebounceMs int `yaml:"debounce_ms"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle settings set via viper (workaround for viper nested handling)
	if viper.IsSet("workspace.base_dir") {
		config.Workspace.BaseDir = viper.GetString("workspace.base_dir")
	}
	if viper.IsSet("generate.scaffold_dir") {
		config.Generate.ScaffoldDir = viper.GetString("generate.scaffold_dir")
	}
	if viper.IsSet("generate.blueprint") {
		config.Generate.Blueprint = viper.GetString("generate.blueprint")
	}
	if viper.IsSet("generate.compat_blank_lines") {
		config.Generate.CompatBlankLines = viper.GetBool("generate.compat_blank_lines")
	}
	if viper.IsSet("watch.debounce_ms") {
		config.Watch.DebounceMs = viper.GetInt("watch.debounce_ms")
	}

	// Apply default values if not set
	if config.Workspace.BaseDir == "" {
		config.Workspace.BaseDir = ".plategen"
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Generate.ScaffoldDir == "" {
		config.Generate.ScaffoldDir = "templates"
	}
	if config.Generate.Blueprint == "" {
		config.Generate.Blueprint = "blueprint.yml"
	}
	if config.Watch.DebounceMs == 0 {
		config.Watch.DebounceMs = 300
	}

	if err := validateConfig(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error())
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validatePath(config.Workspace.BaseDir); err != nil {
		return fmt.Errorf("workspace config: invalid base_dir '%s': %w", config.Workspace.BaseDir, err)
	}

	if err := validatePath(config.Generate.ScaffoldDir); err != nil {
		return fmt.Errorf("generate config: invalid scaffold_dir '%s': %w", config.Generate.ScaffoldDir, err)
	}

	if config.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch config: debounce_ms must be non-negative")
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Validate port range (allow 0 for system-assigned ports in testing)
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		// Basic validation - no dangerous characters
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
