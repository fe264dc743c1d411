package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. the path provided on the command line
// 2. REDIRECTS_CONFIG_PATH environment variable
// 3. config.yaml / config.json in the current working directory
// 4. config.yaml / config.json in the executable's directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		if _, err := os.Stat(configFilePathFlag); err == nil {
			return configFilePathFlag
		}
	}

	envPath := os.Getenv("REDIRECTS_CONFIG_PATH")
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	defaultFiles := []string{"config.yaml", "config.json"}
	locations := []string{}

	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if errExe == nil && exeDir != "" && (errCwd == nil || exeDir != cwd) {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultFiles {
			path := filepath.Join(loc, file)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats, chosen by file extension. When no config file is
// found, the defaults are returned unchanged.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read config file '"+filePath+"'")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
