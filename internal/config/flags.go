package config

import "flag"

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"storage":    "storage",
	"data-dir":   "data_dir",
	"key":        "storage_key",
	"redis-addr": "redis.addr",
	"variant":    "variant",
	"theme":      "theme",
	"sounds":     "sounds.enabled",
	"log-level":  "log_level",
	"log-format": "log_format",
	"log-dir":    "log_dir",
}

// parseFlags binds the config flags onto fs and parses args. Flag defaults
// are the values resolved so far, so unset flags leave them untouched.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage driver (file|redis|memory)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key for the task list")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "Redis address (redis storage)")
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, "Row style (timer|badge)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Initial theme (light|dark)")
	fs.BoolVar(&cfg.Sounds.Enabled, "sounds", cfg.Sounds.Enabled, "Play sound cues")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for TUI session logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
