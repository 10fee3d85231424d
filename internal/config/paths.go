package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p)
	if expanded == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return expanded
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, expanded[2:])
		}
	}
	return expanded
}

// absPath expands p and anchors it at base when it is relative.
func absPath(base, p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" || !strings.Contains(expanded, "%") {
		return expanded
	}
	var b strings.Builder
	for i := 0; i < len(expanded); {
		if expanded[i] == '%' {
			if end := strings.IndexByte(expanded[i+1:], '%'); end > 0 {
				key := expanded[i+1 : i+1+end]
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteString("%" + key + "%")
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(expanded[i])
		i++
	}
	return b.String()
}
