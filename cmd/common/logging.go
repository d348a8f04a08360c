package common

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogging installs the default slog logger. With toFile set, records go
// to ~/.upsidedown/upsidedown.log so they stay out of a full-screen UI;
// otherwise they go to stderr. Returns a closer for the log file.
func SetupLogging(toFile, verbose bool) func() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closer := func() {}

	if toFile {
		w = io.Discard
		if logPath := LogPath(); logPath != "" {
			if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
				logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					w = logFile
					closer = func() { _ = logFile.Close() }
				}
			}
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return closer
}
