package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	if flags == nil {
		flags = &Flags{}
	}

	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := flags.Config
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	flags.apply(cfg)

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./fbxconv.yaml",
		"./fbxconv.toml",
		filepath.Join(ConfigDir(), "fbxconv.yaml"),
		filepath.Join(ConfigDir(), "fbxconv.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = os.TempDir()
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "fbxscene")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "fbxscene")
		}
		return filepath.Join(home, "AppData", "Roaming", "fbxscene")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "fbxscene")
		}
		return filepath.Join(home, ".config", "fbxscene")
	}
}

// loadFromFile merges a YAML or TOML file (chosen by extension) into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandPaths resolves a leading ~ in every path setting.
func (c *Config) expandPaths() error {
	var err error
	for i, p := range c.Data.SearchPaths {
		if c.Data.SearchPaths[i], err = homedir.Expand(p); err != nil {
			return fmt.Errorf("search path %q: %w", p, err)
		}
	}
	if c.Output.Path, err = homedir.Expand(c.Output.Path); err != nil {
		return fmt.Errorf("output path: %w", err)
	}
	if c.Logging.LogFile, err = homedir.Expand(c.Logging.LogFile); err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	return nil
}
