package taskdir

import (
	"path/filepath"
	"testing"
)

func TestDataDir(t *testing.T) {
	tests := []struct {
		home string
		want string
	}{
		{"", Dir},
		{".", Dir},
		{"/home/u", filepath.Join("/home/u", Dir)},
	}
	for _, tt := range tests {
		if got := DataDir(tt.home); got != tt.want {
			t.Errorf("DataDir(%q) = %q, want %q", tt.home, got, tt.want)
		}
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/u")
	want := filepath.Join("/home/u", Dir, ConfigFile)
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}

func TestSoundPath(t *testing.T) {
	data := filepath.Join("/data", Dir)
	if got := SoundPath(data, "complete.mp3"); got != filepath.Join(data, SoundsDir, "complete.mp3") {
		t.Errorf("relative asset resolved to %q", got)
	}
	abs := filepath.Join("/", "usr", "share", "ding.wav")
	if got := SoundPath(data, abs); got != abs {
		t.Errorf("absolute asset changed to %q", got)
	}
	if got := SoundPath(data, ""); got != "" {
		t.Errorf("empty asset resolved to %q", got)
	}
}

func TestLogPath(t *testing.T) {
	if got := LogPath("/data"); got != filepath.Join("/data", LogsDir) {
		t.Errorf("LogPath = %q", got)
	}
}
