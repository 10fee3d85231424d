// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasklist-go/internal/cue"
	"github.com/nibzard/tasklist-go/internal/storage"
)

// isolate points HOME at a temp dir and blanks every TASKLIST_* variable so
// the developer's own config cannot leak into a test.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, b := range envBindings {
		t.Setenv(b.name, "")
	}
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Storage != storage.DriverFile {
		t.Errorf("Storage: got %q, want file", cfg.Storage)
	}
	if cfg.StorageKey != "tasks" {
		t.Errorf("StorageKey: got %q, want tasks", cfg.StorageKey)
	}
	if cfg.Variant != "timer" || cfg.Theme != "light" {
		t.Errorf("Variant/Theme: got %q/%q", cfg.Variant, cfg.Theme)
	}
	if !cfg.Sounds.Enabled || cfg.Sounds.Player != cue.PlayerBell {
		t.Errorf("Sounds: got %+v", cfg.Sounds)
	}
	if cfg.Sounds.Add != cue.DefaultAsset || cfg.Sounds.Complete != cue.DefaultAsset {
		t.Errorf("Sound assets: got %q/%q", cfg.Sounds.Add, cfg.Sounds.Complete)
	}
	if cfg.Redis.Prefix != "tasklist:" {
		t.Errorf("Redis.Prefix: got %q", cfg.Redis.Prefix)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, work := isolate(t)

	cws, err := loadIn(work, newFlagSet(), nil)
	if err != nil {
		t.Fatalf("loadIn failed: %v", err)
	}
	cfg := cws.Config

	dataDir := filepath.Join(home, ".tasklist")
	if cfg.DataDir != dataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.LogDir != filepath.Join(dataDir, "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if cfg.Sounds.Complete != filepath.Join(dataDir, "sounds", "complete.mp3") {
		t.Errorf("Sounds.Complete: got %q", cfg.Sounds.Complete)
	}
	if cfg.WorkDir != work {
		t.Errorf("WorkDir: got %q, want %q", cfg.WorkDir, work)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if len(cws.Files) != 0 || cws.GetConfigFile() != "" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadPriority(t *testing.T) {
	home, work := isolate(t)

	userFile := filepath.Join(home, ".tasklist", "tasklist.toml")
	writeFile(t, userFile, `
variant = "badge"
theme = "dark"
storage_key = "user"
`)
	projectFile := filepath.Join(work, "tasklist.toml")
	writeFile(t, projectFile, `
storage_key = "project"

[sounds]
enabled = false
`)
	writeFile(t, filepath.Join(work, ".env"), "TASKLIST_STORAGE_KEY=dotenv\nTASKLIST_LOG_LEVEL=debug\n")
	t.Setenv("TASKLIST_LOG_LEVEL", "warn")

	cws, err := loadIn(work, newFlagSet(), []string{"-theme", "light", "ls"})
	if err != nil {
		t.Fatalf("loadIn failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		want   string
		source ConfigSource
	}{
		{"variant", "badge", SourceUserFile},
		{"theme", "light", SourceFlag},
		{"storage_key", "dotenv", SourceDotEnv},
		{"sounds.enabled", "false", SourceProjFile},
		{"log_level", "warn", SourceEnv},
		{"storage", "file", SourceDefault},
	}
	for _, tt := range tests {
		if got := cfg.Value(tt.field); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.field, got, tt.want)
		}
		if got := cws.Sources[tt.field]; got != tt.source {
			t.Errorf("source of %s: got %q, want %q", tt.field, got, tt.source)
		}
	}

	if len(cws.Files) != 3 {
		t.Errorf("Files: got %v", cws.Files)
	}
	if cws.GetConfigFile() != projectFile {
		t.Errorf("GetConfigFile: got %q, want %q", cws.GetConfigFile(), projectFile)
	}
}

func TestLoadFlagsLeaveArgs(t *testing.T) {
	_, work := isolate(t)
	fs := newFlagSet()

	if _, err := loadIn(work, fs, []string{"-storage", "memory", "add", "milk"}); err != nil {
		t.Fatal(err)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "add" || got[1] != "milk" {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	env := map[string]string{
		"TASKLIST_STORAGE":          "redis",
		"TASKLIST_REDIS_ADDR":       "cache:6380",
		"TASKLIST_REDIS_DB":         "2",
		"TASKLIST_SOUNDS":           "off",
		"TASKLIST_SOUND_TIMEOUT_MS": "soon",
		"TASKLIST_LOG_CALLER":       "yes",
		"TASKLIST_THEME":            "   ",
	}
	lookup := func(name string) (string, ConfigSource, bool) {
		v, ok := env[name]
		return v, SourceEnv, ok
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, lookup, sources)

	if cfg.Storage != "redis" || cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 {
		t.Errorf("redis settings: got %q %q %d", cfg.Storage, cfg.Redis.Addr, cfg.Redis.DB)
	}
	if cfg.Sounds.Enabled {
		t.Error("TASKLIST_SOUNDS=off left sounds enabled")
	}
	if cfg.Sounds.TimeoutMS != DefaultSoundTimeout {
		t.Errorf("bad number should be ignored, got %d", cfg.Sounds.TimeoutMS)
	}
	if _, ok := sources["sounds.timeout_ms"]; ok {
		t.Error("ignored value recorded a source")
	}
	if !cfg.LogCaller {
		t.Error("TASKLIST_LOG_CALLER=yes not applied")
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("blank value should be ignored, got %q", cfg.Theme)
	}
}

func TestEnvLookupPrefersProcessEnv(t *testing.T) {
	t.Setenv("TASKLIST_VARIANT", "badge")
	lookup := newEnvLookup(map[string]string{
		"TASKLIST_VARIANT": "timer",
		"TASKLIST_THEME":   "dark",
	})

	if v, src, _ := lookup("TASKLIST_VARIANT"); v != "badge" || src != SourceEnv {
		t.Errorf("TASKLIST_VARIANT: got %q from %q", v, src)
	}
	if v, src, _ := lookup("TASKLIST_THEME"); v != "dark" || src != SourceDotEnv {
		t.Errorf("TASKLIST_THEME: got %q from %q", v, src)
	}
	if _, _, ok := lookup("TASKLIST_NOPE_NOT_SET"); ok {
		t.Error("unset variable reported ok")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"storage", []string{"-storage", "sqlite"}, "invalid storage"},
		{"variant", []string{"-variant", "confetti"}, "invalid variant"},
		{"theme", []string{"-theme", "sepia"}, "invalid theme"},
		{"unknown flag", []string{"-bogus"}, "parsing flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			_, err := loadIn(work, newFlagSet(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, work := isolate(t)
		writeFile(t, filepath.Join(work, ".tasklist.toml"), "colour = \"blue\"\n")
		_, err := loadIn(work, newFlagSet(), nil)
		if err == nil || !strings.Contains(err.Error(), "colour") {
			t.Errorf("error: got %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, work := isolate(t)
		writeFile(t, filepath.Join(work, "tasklist.toml"), "storage = \n")
		if _, err := loadIn(work, newFlagSet(), nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestFinalizePaths(t *testing.T) {
	_, work := isolate(t)
	abs := filepath.Join(t.TempDir(), "ding.wav")
	writeFile(t, filepath.Join(work, "tasklist.toml"), `
data_dir = "state"
log_dir = "logs-here"

[sounds]
add = "`+filepath.ToSlash(abs)+`"
complete = "done.wav"
`)

	cws, err := loadIn(work, newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := cws.Config

	if cfg.DataDir != filepath.Join(work, "state") {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
	if cfg.LogDir != filepath.Join(work, "logs-here") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if filepath.Clean(cfg.Sounds.Add) != filepath.Clean(abs) {
		t.Errorf("Sounds.Add: got %q, want %q", cfg.Sounds.Add, abs)
	}
	if cfg.Sounds.Complete != filepath.Join(work, "state", "sounds", "done.wav") {
		t.Errorf("Sounds.Complete: got %q", cfg.Sounds.Complete)
	}

	assets := cfg.CueAssets()
	if assets[cue.Add] != cfg.Sounds.Add || assets[cue.Complete] != cfg.Sounds.Complete {
		t.Errorf("CueAssets: got %v", assets)
	}
	opts := cfg.StorageOptions()
	if opts.Driver != storage.DriverFile || opts.Dir != cfg.DataDir || opts.Redis.Prefix != "tasklist:" {
		t.Errorf("StorageOptions: got %+v", opts)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASKLIST_TEST_DIR", "/opt/tasks")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"$TASKLIST_TEST_DIR/x", "/opt/tasks/x"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValueMasksPassword(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	if cfg.Value("redis.password") != "" {
		t.Error("empty password should display empty")
	}
	cfg.Redis.Password = "hunter2"
	if got := cfg.Value("redis.password"); got == "hunter2" || got == "" {
		t.Errorf("password displayed as %q", got)
	}
	if cfg.Value("no.such.field") != "" {
		t.Error("unknown field should be empty")
	}
	for _, field := range []string{"storage", "storage_key", "variant", "theme", "sounds.enabled", "redis.db"} {
		if cfg.Value(field) == "" {
			t.Errorf("Value(%q) is empty", field)
		}
	}
	if len(Fields()) != len(configFields()) {
		t.Error("Fields does not match tracked fields")
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "off", "nope"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}

func TestExampleConfigParses(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "tasklist.toml"), ExampleConfig())

	cws, err := loadIn(work, newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["redis.prefix"] != SourceProjFile {
		t.Errorf("redis.prefix source: got %q", cws.Sources["redis.prefix"])
	}
}
