/*
Package config manages the TOML config for lango.
*/
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/lango/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Lookup LookupConfig `toml:"lookup"`
	Local  LocalConfig  `toml:"local"`
	Remote RemoteConfig `toml:"remote"`
	Setup  SetupConfig  `toml:"setup"`
	CLI    CliConfig    `toml:"cli"`
}

// LookupConfig has the default lookup options.
type LookupConfig struct {
	MaxExamples     int  `toml:"max_examples"`
	SuggestionLimit int  `toml:"suggestion_limit"`
	PrefetchRemote  bool `toml:"prefetch_remote"`
	ShowEnglish     bool `toml:"show_english"`
	ShowExamples    bool `toml:"show_examples"`
}

// LocalConfig points at the ECDICT dataset. Empty means the data dir default.
type LocalConfig struct {
	DatasetPath string `toml:"dataset_path"`
}

// RemoteConfig holds Free Dictionary API options.
type RemoteConfig struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// SetupConfig holds dataset download options.
type SetupConfig struct {
	DatasetURL             string `toml:"dataset_url"`
	DownloadTimeoutSeconds int    `toml:"download_timeout_seconds"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Color    bool   `toml:"color"`
	LogLevel string `toml:"log_level"`
}

// Timeout returns the remote request timeout.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// DownloadTimeout returns the dataset download timeout.
func (s SetupConfig) DownloadTimeout() time.Duration {
	return time.Duration(s.DownloadTimeoutSeconds) * time.Second
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lookup: LookupConfig{
			MaxExamples:     3,
			SuggestionLimit: 5,
		},
		Remote: RemoteConfig{
			Enabled:        true,
			Endpoint:       "https://api.dictionaryapi.dev/api/v2/entries/en",
			TimeoutSeconds: 5,
			UserAgent:      "lango-cli/0.1",
		},
		Setup: SetupConfig{
			DatasetURL:             "https://github.com/skywind3000/ECDICT/releases/download/1.0.28/ecdict-sqlite-28.zip",
			DownloadTimeoutSeconds: 300,
		},
		CLI: CliConfig{
			Color:    true,
			LogLevel: "warn",
		},
	}
}

// Validate clamps out-of-range values back to defaults and reports what it
// changed.
func (c *Config) Validate() []string {
	def := DefaultConfig()
	var fixed []string
	if c.Lookup.MaxExamples < 0 {
		fixed = append(fixed, fmt.Sprintf("lookup.max_examples %d < 0", c.Lookup.MaxExamples))
		c.Lookup.MaxExamples = def.Lookup.MaxExamples
	}
	if c.Lookup.SuggestionLimit <= 0 {
		fixed = append(fixed, fmt.Sprintf("lookup.suggestion_limit %d <= 0", c.Lookup.SuggestionLimit))
		c.Lookup.SuggestionLimit = def.Lookup.SuggestionLimit
	}
	if c.Remote.TimeoutSeconds <= 0 {
		fixed = append(fixed, fmt.Sprintf("remote.timeout_seconds %d <= 0", c.Remote.TimeoutSeconds))
		c.Remote.TimeoutSeconds = def.Remote.TimeoutSeconds
	}
	if c.Remote.Endpoint == "" {
		fixed = append(fixed, "remote.endpoint is empty")
		c.Remote.Endpoint = def.Remote.Endpoint
	}
	if c.Setup.DownloadTimeoutSeconds <= 0 {
		fixed = append(fixed, fmt.Sprintf("setup.download_timeout_seconds %d <= 0", c.Setup.DownloadTimeoutSeconds))
		c.Setup.DownloadTimeoutSeconds = def.Setup.DownloadTimeoutSeconds
	}
	for _, msg := range fixed {
		log.Warnf("Invalid config value %s, using default", msg)
	}
	return fixed
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() string {
	return utils.NewPathResolver().GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/lango/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
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

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages whatever sections of a broken file still parse
// with the right types.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "lookup"); ok {
		extractLookupConfig(section, &config.Lookup)
	}
	if section, ok := utils.ExtractSection(tempConfig, "local"); ok {
		if val, ok := utils.ExtractString(section, "dataset_path"); ok {
			config.Local.DatasetPath = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	if section, ok := utils.ExtractSection(tempConfig, "setup"); ok {
		extractSetupConfig(section, &config.Setup)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.Validate()
	return config, nil
}

func extractLookupConfig(data map[string]any, lookup *LookupConfig) {
	if val, ok := utils.ExtractInt64(data, "max_examples"); ok {
		lookup.MaxExamples = val
	}
	if val, ok := utils.ExtractInt64(data, "suggestion_limit"); ok {
		lookup.SuggestionLimit = val
	}
	if val, ok := utils.ExtractBool(data, "prefetch_remote"); ok {
		lookup.PrefetchRemote = val
	}
	if val, ok := utils.ExtractBool(data, "show_english"); ok {
		lookup.ShowEnglish = val
	}
	if val, ok := utils.ExtractBool(data, "show_examples"); ok {
		lookup.ShowExamples = val
	}
}

func extractRemoteConfig(data map[string]any, remote *RemoteConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		remote.Enabled = val
	}
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		remote.Endpoint = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_seconds"); ok {
		remote.TimeoutSeconds = val
	}
	if val, ok := utils.ExtractString(data, "user_agent"); ok {
		remote.UserAgent = val
	}
}

func extractSetupConfig(data map[string]any, setup *SetupConfig) {
	if val, ok := utils.ExtractString(data, "dataset_url"); ok {
		setup.DatasetURL = val
	}
	if val, ok := utils.ExtractInt64(data, "download_timeout_seconds"); ok {
		setup.DownloadTimeoutSeconds = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
	if val, ok := utils.ExtractString(data, "log_level"); ok {
		cli.LogLevel = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// SetDatasetPath records where setup put the dataset and saves the file.
func (c *Config) SetDatasetPath(configPath, datasetPath string) error {
	c.Local.DatasetPath = datasetPath
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
