package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/taskdir"
)

// Load loads configuration from every source in priority order. See the
// package documentation for the order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return loadIn(wd, fs, args)
}

func loadIn(workDir string, fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{WorkDir: workDir}
	var files []string

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(workDir); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 4-5. .env, then the real environment
	dotenv, dotenvPath, err := readDotEnv(workDir)
	if err != nil {
		return nil, err
	}
	if dotenvPath != "" {
		files = append(files, dotenvPath)
	}
	loadFromEnv(cfg, newEnvLookup(dotenv), sources)

	// 6. CLI flags
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage",
		"data_dir",
		"storage_key",
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.prefix",
		"variant",
		"theme",
		"sounds.enabled",
		"sounds.player",
		"sounds.add",
		"sounds.complete",
		"sounds.timeout_ms",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_dir",
	}
}

// loadConfigFile decodes TOML over cfg and marks every key the file set.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, key := range md.Keys() {
		name := key.String()
		if _, ok := sources[name]; ok {
			sources[name] = source
		}
	}
	return nil
}

// finalizeConfig normalizes and validates values and resolves paths.
func finalizeConfig(cfg *Config) error {
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.Variant = strings.ToLower(strings.TrimSpace(cfg.Variant))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))

	switch cfg.Storage {
	case storage.DriverFile, storage.DriverRedis, storage.DriverMemory:
	default:
		return fmt.Errorf("invalid storage %q (want file, redis or memory)", cfg.Storage)
	}
	switch cfg.Variant {
	case "timer", "badge":
	default:
		return fmt.Errorf("invalid variant %q (want timer or badge)", cfg.Variant)
	}
	switch cfg.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q (want light or dark)", cfg.Theme)
	}

	if strings.TrimSpace(cfg.StorageKey) == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = storage.DefaultRedisPrefix
	}
	if cfg.Sounds.TimeoutMS <= 0 {
		cfg.Sounds.TimeoutMS = DefaultSoundTimeout
	}

	cfg.DataDir = absPath(cfg.WorkDir, cfg.DataDir)
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if cfg.LogDir == "" {
		cfg.LogDir = taskdir.LogPath(cfg.DataDir)
	} else {
		cfg.LogDir = absPath(cfg.WorkDir, cfg.LogDir)
	}
	cfg.Sounds.Add = taskdir.SoundPath(cfg.DataDir, expandPath(cfg.Sounds.Add))
	cfg.Sounds.Complete = taskdir.SoundPath(cfg.DataDir, expandPath(cfg.Sounds.Complete))

	return nil
}

// GetConfigFile returns the highest-priority TOML file that was loaded.
func (cws *ConfigWithSources) GetConfigFile() string {
	for i := len(cws.Files) - 1; i >= 0; i-- {
		if strings.HasSuffix(cws.Files[i], ".toml") {
			return cws.Files[i]
		}
	}
	return ""
}
