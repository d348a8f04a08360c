package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	if got := StateDir(); got != dir {
		t.Errorf("StateDir() = %q, want %q", got, dir)
	}
	if got := LogPath(); got != filepath.Join(dir, "upsidedown.log") {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestSetupLogging_ToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	t.Setenv(HomeEnv, dir)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closeLog := SetupLogging(true, false)
	slog.Info("signal lost", "sanity", 0)
	slog.Debug("hidden")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, "upsidedown.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "signal lost") || !strings.Contains(out, "sanity=0") {
		t.Errorf("unexpected log contents %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written without verbose: %q", out)
	}
}

func TestSetupLogging_Verbose(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closeLog := SetupLogging(true, true)
	slog.Debug("tuning")
	closeLog()

	data, err := os.ReadFile(LogPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tuning") {
		t.Errorf("debug record missing: %q", data)
	}
}

func TestExitOnError(t *testing.T) {
	var code = -1
	orig := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = orig })

	ExitOnError("transmit", nil)
	if code != -1 {
		t.Errorf("nil error should not exit")
	}
	ExitOnError("transmit", os.ErrNotExist)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
