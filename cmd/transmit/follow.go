package transmit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// follower reads lines appended to a file after it was opened.
type follower struct {
	path    string
	f       *os.File
	r       *bufio.Reader
	watcher *fsnotify.Watcher
	partial string
}

func newFollower(path string) (*follower, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open '%s' for reading: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to initialize watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("error watching '%s': %w", path, err)
	}

	return &follower{path: path, f: f, r: bufio.NewReader(f), watcher: watcher}, nil
}

func (fl *follower) Close() error {
	return errors.Join(fl.watcher.Close(), fl.f.Close())
}

// run calls handle for every complete appended line until ctx is done.
func (fl *follower) run(ctx context.Context, handle func(line string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fl.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if err := fl.readLines(handle); err != nil {
					return err
				}
			}
		case err, ok := <-fl.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "path", fl.path, "error", err)
		}
	}
}

func (fl *follower) readLines(handle func(line string)) error {
	for {
		chunk, err := fl.r.ReadString('\n')
		fl.partial += chunk
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading from '%s': %w", fl.path, err)
		}
		line := strings.TrimRight(fl.partial, "\r\n")
		fl.partial = ""
		handle(line)
	}
}
