// Package filesystem holds small path helpers shared by adapters.
package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns the per-user codehelper directory (~/.codehelper).
func AppDir() string {
	return filepath.Join(UserHomeDir(), ".codehelper")
}

// ExpandPath resolves ~/ prefixes and relative paths against the home
// directory, leaving absolute paths untouched.
func ExpandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// AbsPath expands path and anchors it to the working directory when it is
// still relative. Commands launched with a different working directory can
// then reference the result safely.
func AbsPath(path string) string {
	expanded := ExpandPath(path)
	if expanded == "" || filepath.IsAbs(expanded) {
		return expanded
	}
	if abs, err := filepath.Abs(expanded); err == nil {
		return abs
	}
	return expanded
}
