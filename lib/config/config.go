// Package config provides plugin config files under data/config/PLUGIN_NAME/config.yaml,
// with environment overrides applied on top of the file contents.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the subdir under data root: data/config
	ConfigDirName = "config"
	// ConfigFileName is the default config file name per plugin
	ConfigFileName = "config.yaml"
	// DataDirEnv names the env var holding the data root.
	DataDirEnv = "DATA_DIR"
	// DefaultDataDir is used when DATA_DIR is unset.
	DefaultDataDir = "data"
)

// DataDir returns root when non-empty, then DATA_DIR, then "data".
func DataDir(root string) string {
	if root != "" {
		return root
	}
	if d := os.Getenv(DataDirEnv); d != "" {
		return d
	}
	return DefaultDataDir
}

// Path returns the path for a plugin's config file: dataDir/config/pluginName/config.yaml
func Path(dataDir, pluginName string) string {
	return filepath.Join(dataDir, ConfigDirName, pluginName, ConfigFileName)
}

// Dir returns the config directory for a plugin: dataDir/config/pluginName
func Dir(dataDir, pluginName string) string {
	return filepath.Join(dataDir, ConfigDirName, pluginName)
}

// Read unmarshals the plugin config into dest. A missing or empty file leaves dest unchanged.
func Read(dataDir, pluginName string, dest any) error {
	data, err := os.ReadFile(Path(dataDir, pluginName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config read: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("config unmarshal: %w", err)
	}
	return nil
}

// Save creates or updates the plugin config file. Creates parent dirs if needed.
func Save(dataDir, pluginName string, v any) error {
	if err := os.MkdirAll(Dir(dataDir, pluginName), 0755); err != nil {
		return fmt.Errorf("config mkdir: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config marshal: %w", err)
	}
	if err := os.WriteFile(Path(dataDir, pluginName), data, 0644); err != nil {
		return fmt.Errorf("config write: %w", err)
	}
	return nil
}

// Exists reports whether the plugin config file exists.
func Exists(dataDir, pluginName string) bool {
	_, err := os.Stat(Path(dataDir, pluginName))
	return err == nil
}

// Load fills dest (a pointer to a struct already holding defaults) from the plugin
// config file, writes dest back as the default file when none exists yet, and
// finally applies `env` struct tag overrides.
func Load(dataDir, pluginName string, dest any) error {
	existed := Exists(dataDir, pluginName)
	if err := Read(dataDir, pluginName, dest); err != nil {
		return err
	}
	if !existed {
		if err := Save(dataDir, pluginName, dest); err != nil {
			return err
		}
	}
	if err := env.Parse(dest); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	return nil
}
