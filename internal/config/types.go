package config

import (
	"github.com/nibzard/tasklist-go/internal/cue"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/taskdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStorage      = storage.DriverFile
	DefaultDataDir      = "~/" + taskdir.Dir
	DefaultStorageKey   = taskdir.DefaultKey
	DefaultRedisAddr    = "localhost:6379"
	DefaultVariant      = "timer"
	DefaultTheme        = "light"
	DefaultSoundPlayer  = cue.PlayerBell
	DefaultSoundTimeout = 3000
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	Storage    string      `toml:"storage"`
	DataDir    string      `toml:"data_dir"`
	StorageKey string      `toml:"storage_key"`
	Redis      RedisConfig `toml:"redis"`

	// Presentation
	Variant string `toml:"variant"`
	Theme   string `toml:"theme"`

	Sounds SoundsConfig `toml:"sounds"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogDir        string `toml:"log_dir"`

	// WorkDir is the directory project config and .env were looked up in.
	WorkDir string `toml:"-"`
}

// RedisConfig configures the redis storage driver.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// SoundsConfig configures the audible cues.
type SoundsConfig struct {
	Enabled bool `toml:"enabled"`
	// Player is "bell", "none", or a command that receives the asset path.
	Player    string `toml:"player"`
	Add       string `toml:"add"`
	Complete  string `toml:"complete"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// StorageOptions converts the storage settings for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver: c.Storage,
		Dir:    c.DataDir,
		Redis: storage.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
	}
}

// CueAssets maps each cue kind to its resolved asset path.
func (c *Config) CueAssets() map[cue.Kind]string {
	return map[cue.Kind]string{
		cue.Add:      c.Sounds.Add,
		cue.Complete: c.Sounds.Complete,
	}
}
