package common

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the state directory when set.
const HomeEnv = "UPSIDEDOWN_HOME"

// StateDir returns the directory holding config and logs (~/.upsidedown).
func StateDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".upsidedown")
}

// LogPath returns the path to the log file
func LogPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "upsidedown.log")
}
