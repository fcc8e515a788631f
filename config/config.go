package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/utils"
)

const envPrefix = "HFSCOUT"

type Config struct {
	LogLevel        string   `json:"log_level" mapstructure:"log_level"`
	LogFilePath     string   `json:"log_file_path" mapstructure:"log_file_path"`
	HFAPIURL        string   `json:"hf_api_url" mapstructure:"hf_api_url"`
	HFToken         string   `json:"hf_token" mapstructure:"hf_token"`
	AvailableVRAM   float64  `json:"available_vram" mapstructure:"available_vram"` // GB, 0 uses system RAM
	DefaultTopN     int      `json:"default_top_n" mapstructure:"default_top_n"`
	ListenAddress   string   `json:"listen_address" mapstructure:"listen_address"`
	PoolConcurrency int      `json:"pool_concurrency" mapstructure:"pool_concurrency"`
	CORSOrigins     []string `json:"cors_origins" mapstructure:"cors_origins"`
	Theme           string   `json:"theme" mapstructure:"theme"`
}

var defaultConfig = Config{
	LogLevel:        "info",
	LogFilePath:     filepath.Join(utils.GetConfigDir(), "hfscout.log"),
	HFAPIURL:        "https://huggingface.co",
	HFToken:         "",
	AvailableVRAM:   0,
	DefaultTopN:     3,
	ListenAddress:   "127.0.0.1:8080",
	PoolConcurrency: 4,
	CORSOrigins:     []string{"*"},
	Theme:           "dark-neon",
}

// Default returns a copy of the built-in configuration
func Default() Config {
	cfg := defaultConfig
	cfg.CORSOrigins = append([]string(nil), defaultConfig.CORSOrigins...)
	return cfg
}

// newViper builds a viper instance over path with the defaults and environment bindings
// registered. HF_TOKEN is honoured alongside HFSCOUT_HF_TOKEN.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("log_level", defaultConfig.LogLevel)
	v.SetDefault("log_file_path", defaultConfig.LogFilePath)
	v.SetDefault("hf_api_url", defaultConfig.HFAPIURL)
	v.SetDefault("hf_token", defaultConfig.HFToken)
	v.SetDefault("available_vram", defaultConfig.AvailableVRAM)
	v.SetDefault("default_top_n", defaultConfig.DefaultTopN)
	v.SetDefault("listen_address", defaultConfig.ListenAddress)
	v.SetDefault("pool_concurrency", defaultConfig.PoolConcurrency)
	v.SetDefault("cors_origins", defaultConfig.CORSOrigins)
	v.SetDefault("theme", defaultConfig.Theme)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("hf_token", envPrefix+"_HF_TOKEN", "HF_TOKEN")

	return v
}

// LoadConfig reads the user's config file, creating it with defaults when missing
func LoadConfig() (Config, error) {
	return LoadConfigFrom(utils.GetConfigPath())
}

// LoadConfigFrom reads the config at path, creating it with defaults when missing.
// Environment variables override file values.
func LoadConfigFrom(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.DebugLogger.Println("Config file does not exist, creating with default values")

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logging.ErrorLogger.Printf("Failed to create config directory: %v\n", err)
			return Config{}, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := SaveConfigTo(path, defaultConfig); err != nil {
			logging.ErrorLogger.Printf("Failed to save default config: %v\n", err)
			return Config{}, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		logging.ErrorLogger.Printf("Failed to read config file: %v\n", err)
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}
	cfg.LogFilePath = utils.ExpandHome(cfg.LogFilePath)
	return cfg, nil
}

// Watch reloads the config at path whenever it changes, passing each new version (or the
// decode error) to onChange. The watch lasts for the life of the process.
func Watch(path string, onChange func(Config, error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		logging.InfoLogger.Printf("Config file changed: %s (%s)\n", e.Name, e.Op)
		onChange(decode(v))
	})
	v.WatchConfig()
	return nil
}

// SaveConfig writes config to the user's config file
func SaveConfig(config Config) error {
	return SaveConfigTo(utils.GetConfigPath(), config)
}

func SaveConfigTo(path string, config Config) error {
	logging.DebugLogger.Printf("Saving config to: %s\n", path)

	file, err := os.Create(path)
	if err != nil {
		logging.ErrorLogger.Printf("Failed to create config file: %v\n", err)
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(config); err != nil {
		logging.ErrorLogger.Printf("Failed to encode config to file: %v\n", err)
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}
