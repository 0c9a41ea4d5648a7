/*
Package config manages TOML config for the prelim planner services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Dwain-Anderson/cu-prelim-planner/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig    `toml:"server"`
	HTTP      HTTPConfig      `toml:"http"`
	Registrar RegistrarConfig `toml:"registrar"`
	DB        DBConfig        `toml:"db"`
	CLI       CliConfig       `toml:"cli"`
}

// ServerConfig has suggestion server related options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQuery    int `toml:"max_query"`
	MaxDistance int `toml:"max_distance"`
}

// HTTPConfig holds the HTTP API options.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// RegistrarConfig holds scraping options.
type RegistrarConfig struct {
	BaseURL     string `toml:"base_url"`
	Semester    string `toml:"semester"`
	ExamType    string `toml:"exam_type"`
	SnapshotDir string `toml:"snapshot_dir"`
}

// DBConfig holds database options.
type DBConfig struct {
	Path string `toml:"path"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxQueryLen  int `toml:"max_query_len"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:    64,
			MaxQuery:    60,
			MaxDistance: 3,
		},
		HTTP: HTTPConfig{
			Addr: ":5000",
		},
		Registrar: RegistrarConfig{
			BaseURL:     "https://registrar.cornell.edu/exams",
			Semester:    "Fall 2024",
			ExamType:    "prelim",
			SnapshotDir: "data",
		},
		DB: DBConfig{
			Path: "prelim-planner.db",
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			MaxQueryLen:  24,
		},
	}
}

// Validate clamps out-of-range values back to defaults rather than
// failing startup on a hand-edited config file.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Server.MaxLimit < 1 {
		log.Warnf("max_limit %d out of range, using %d", c.Server.MaxLimit, def.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxQuery < 1 {
		log.Warnf("max_query %d out of range, using %d", c.Server.MaxQuery, def.Server.MaxQuery)
		c.Server.MaxQuery = def.Server.MaxQuery
	}
	if c.Server.MaxDistance < 0 {
		log.Warnf("max_distance %d out of range, using %d", c.Server.MaxDistance, def.Server.MaxDistance)
		c.Server.MaxDistance = def.Server.MaxDistance
	}
	if c.CLI.DefaultLimit < 1 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = def.HTTP.Addr
	}
	if c.DB.Path == "" {
		c.DB.Path = def.DB.Path
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/prelim-planner
// 2. ~/Library/Application Support/prelim-planner (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "prelim-planner")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "prelim-planner")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Missing keys keep their default
// values, so partial config files are fine.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	config.Validate()
	return config, nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: <config dir>/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
