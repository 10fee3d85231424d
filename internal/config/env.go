package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envLookup resolves a variable and reports which source supplied it.
type envLookup func(name string) (string, ConfigSource, bool)

// newEnvLookup prefers the process environment over values read from .env.
func newEnvLookup(dotenv map[string]string) envLookup {
	return func(name string) (string, ConfigSource, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, SourceEnv, true
		}
		if v, ok := dotenv[name]; ok {
			return v, SourceDotEnv, true
		}
		return "", "", false
	}
}

// readDotEnv reads dir/.env without touching the process environment.
// A missing file yields an empty map.
func readDotEnv(dir string) (map[string]string, string, error) {
	path := filepath.Join(dir, ".env")
	if !fileExists(path) {
		return nil, "", nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, path, nil
}

type envBinding struct {
	name  string
	field string
	apply func(cfg *Config, value string) bool
}

var envBindings = []envBinding{
	{"TASKLIST_STORAGE", "storage", stringEnv(func(c *Config) *string { return &c.Storage })},
	{"TASKLIST_DATA_DIR", "data_dir", stringEnv(func(c *Config) *string { return &c.DataDir })},
	{"TASKLIST_STORAGE_KEY", "storage_key", stringEnv(func(c *Config) *string { return &c.StorageKey })},
	{"TASKLIST_REDIS_ADDR", "redis.addr", stringEnv(func(c *Config) *string { return &c.Redis.Addr })},
	{"TASKLIST_REDIS_PASSWORD", "redis.password", stringEnv(func(c *Config) *string { return &c.Redis.Password })},
	{"TASKLIST_REDIS_DB", "redis.db", intEnv(func(c *Config) *int { return &c.Redis.DB })},
	{"TASKLIST_REDIS_PREFIX", "redis.prefix", stringEnv(func(c *Config) *string { return &c.Redis.Prefix })},
	{"TASKLIST_VARIANT", "variant", stringEnv(func(c *Config) *string { return &c.Variant })},
	{"TASKLIST_THEME", "theme", stringEnv(func(c *Config) *string { return &c.Theme })},
	{"TASKLIST_SOUNDS", "sounds.enabled", boolEnv(func(c *Config) *bool { return &c.Sounds.Enabled })},
	{"TASKLIST_SOUND_PLAYER", "sounds.player", stringEnv(func(c *Config) *string { return &c.Sounds.Player })},
	{"TASKLIST_SOUND_ADD", "sounds.add", stringEnv(func(c *Config) *string { return &c.Sounds.Add })},
	{"TASKLIST_SOUND_COMPLETE", "sounds.complete", stringEnv(func(c *Config) *string { return &c.Sounds.Complete })},
	{"TASKLIST_SOUND_TIMEOUT_MS", "sounds.timeout_ms", intEnv(func(c *Config) *int { return &c.Sounds.TimeoutMS })},
	{"TASKLIST_LOG_LEVEL", "log_level", stringEnv(func(c *Config) *string { return &c.LogLevel })},
	{"TASKLIST_LOG_FORMAT", "log_format", stringEnv(func(c *Config) *string { return &c.LogFormat })},
	{"TASKLIST_LOG_TIMESTAMPS", "log_timestamps", boolEnv(func(c *Config) *bool { return &c.LogTimestamps })},
	{"TASKLIST_LOG_CALLER", "log_caller", boolEnv(func(c *Config) *bool { return &c.LogCaller })},
	{"TASKLIST_LOG_DIR", "log_dir", stringEnv(func(c *Config) *string { return &c.LogDir })},
}

// loadFromEnv applies TASKLIST_* overrides. Empty values are ignored, as are
// numbers that fail to parse.
func loadFromEnv(cfg *Config, lookup envLookup, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v, source, ok := lookup(b.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if !b.apply(cfg, v) {
			continue
		}
		if sources != nil {
			sources[b.field] = source
		}
	}
}

func stringEnv(field func(*Config) *string) func(*Config, string) bool {
	return func(cfg *Config, v string) bool {
		*field(cfg) = v
		return true
	}
}

func boolEnv(field func(*Config) *bool) func(*Config, string) bool {
	return func(cfg *Config, v string) bool {
		*field(cfg) = boolFromString(v)
		return true
	}
}

func intEnv(field func(*Config) *int) func(*Config, string) bool {
	return func(cfg *Config, v string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		*field(cfg) = n
		return true
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
