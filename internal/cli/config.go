// Config loading for the mealplan CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/mealplan/internal/logging"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir     = "data_dir"
	cfgKeyRecipesFile = "recipes_file"
	cfgKeyLogLevel    = "log_level"
	cfgKeyLogFormat   = "log_format"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# mealplan configuration

# Data directory for meals.json and pantry.json
# (optional; overridable by --data-dir flag)
# data_dir:

# Recipe catalog; empty uses the bundled recipes.
# Relative paths are resolved against this directory.
# recipes_file: recipes.json

# Logging: debug, info, warn, error; console or json
log_level: warn
log_format: console
`

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	DataDir     string `yaml:"data_dir,omitempty"`
	RecipesFile string `yaml:"recipes_file,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyLogFormat, logging.FormatConsole)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// writeConfig replaces config.yaml with cfg.
func writeConfig(path string, cfg configFile) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
