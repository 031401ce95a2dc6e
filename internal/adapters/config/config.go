// Package config resolves the runtime configuration from
// ~/.userbot/config.toml, writing a default file on first run so every knob
// is discoverable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/shubhampopalghat/userbot/internal/application"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".userbot"

	configFileMode = 0o600
	configDirMode  = 0o700
)

// fileSchema is the on-disk config shape. Durations are written in Go
// duration syntax ("2s", "300ms").
type fileSchema struct {
	Registry struct {
		Path string `toml:"path"`
	} `toml:"registry"`
	Sessions struct {
		Dir string `toml:"dir"`
	} `toml:"sessions"`
	Assets struct {
		Avatar string `toml:"avatar"`
	} `toml:"assets"`
	Limits struct {
		CleanupScan int `toml:"cleanup_scan"`
		DialogScan  int `toml:"dialog_scan"`
	} `toml:"limits"`
	Delays struct {
		Ban        string `toml:"ban"`
		Join       string `toml:"join"`
		Leave      string `toml:"leave"`
		Delete     string `toml:"delete"`
		SummaryTTL string `toml:"summary_ttl"`
		FloodWait  string `toml:"flood_wait"`
	} `toml:"delays"`
}

// Load resolves the config via viper, seeding defaults relative to the data
// directory and materializing a default config file when none exists.
func Load(cfg *viper.Viper) (application.Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return application.Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, configDir)

	return LoadFrom(cfg, dataDir)
}

// LoadFrom is Load with an explicit data directory, used by tests.
func LoadFrom(cfg *viper.Viper, dataDir string) (application.Config, error) {
	defaults := defaultConfig(dataDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dataDir)
	cfg.SetDefault("registry.path", defaults.RegistryPath)
	cfg.SetDefault("sessions.dir", defaults.SessionsDir)
	cfg.SetDefault("assets.avatar", defaults.AvatarPath)
	cfg.SetDefault("limits.cleanup_scan", defaults.CleanupScanLimit)
	cfg.SetDefault("limits.dialog_scan", defaults.DialogScanLimit)
	cfg.SetDefault("delays.ban", defaults.Delays.Ban.String())
	cfg.SetDefault("delays.join", defaults.Delays.Join.String())
	cfg.SetDefault("delays.leave", defaults.Delays.Leave.String())
	cfg.SetDefault("delays.delete", defaults.Delays.Delete.String())
	cfg.SetDefault("delays.summary_ttl", defaults.Delays.SummaryTTL.String())
	cfg.SetDefault("delays.flood_wait", defaults.Delays.FloodWait.String())

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return application.Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := writeDefaultFile(dataDir, defaults); err != nil {
			return application.Config{}, err
		}
	}

	resolved := application.Config{
		DataDir:          dataDir,
		RegistryPath:     cfg.GetString("registry.path"),
		SessionsDir:      cfg.GetString("sessions.dir"),
		AvatarPath:       cfg.GetString("assets.avatar"),
		CleanupScanLimit: cfg.GetInt("limits.cleanup_scan"),
		DialogScanLimit:  cfg.GetInt("limits.dialog_scan"),
		Delays: application.Delays{
			Ban:        parseDelay(cfg.GetString("delays.ban"), defaults.Delays.Ban),
			Join:       parseDelay(cfg.GetString("delays.join"), defaults.Delays.Join),
			Leave:      parseDelay(cfg.GetString("delays.leave"), defaults.Delays.Leave),
			Delete:     parseDelay(cfg.GetString("delays.delete"), defaults.Delays.Delete),
			SummaryTTL: parseDelay(cfg.GetString("delays.summary_ttl"), defaults.Delays.SummaryTTL),
			FloodWait:  parseDelay(cfg.GetString("delays.flood_wait"), defaults.Delays.FloodWait),
		},
	}
	resolved.ApplyDefaults()

	return resolved, nil
}

func defaultConfig(dataDir string) application.Config {
	cfg := application.Config{
		DataDir:      dataDir,
		RegistryPath: filepath.Join(dataDir, "bot_config.json"),
		SessionsDir:  filepath.Join(dataDir, "sessions"),
		AvatarPath:   filepath.Join(dataDir, "pictures", "ub1.png"),
	}
	cfg.ApplyDefaults()

	return cfg
}

func writeDefaultFile(dataDir string, defaults application.Config) error {
	var file fileSchema
	file.Registry.Path = defaults.RegistryPath
	file.Sessions.Dir = defaults.SessionsDir
	file.Assets.Avatar = defaults.AvatarPath
	file.Limits.CleanupScan = defaults.CleanupScanLimit
	file.Limits.DialogScan = defaults.DialogScanLimit
	file.Delays.Ban = defaults.Delays.Ban.String()
	file.Delays.Join = defaults.Delays.Join.String()
	file.Delays.Leave = defaults.Delays.Leave.String()
	file.Delays.Delete = defaults.Delays.Delete.String()
	file.Delays.SummaryTTL = defaults.Delays.SummaryTTL.String()
	file.Delays.FloodWait = defaults.Delays.FloodWait.String()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}

	if err := os.MkdirAll(dataDir, configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(dataDir, configName+"."+configType)
	if err := os.WriteFile(path, data, configFileMode); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

func parseDelay(raw string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return parsed
}
