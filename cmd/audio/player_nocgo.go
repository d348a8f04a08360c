//go:build linux && !cgo

package audio

import (
	"sync"

	"github.com/gen2brain/beeep"
)

// Available indicates whether real audio output is supported in this build.
// Without cgo the system beeper is used and pitch/length are best effort.
const Available = false

var systemBeep = beeep.Beep

type player struct {
	mu          sync.Mutex
	initialized bool
}

func newPlayer() *player {
	return &player{}
}

func (p *player) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	return nil
}

func (p *player) play(w *waveStreamer) error {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()

	if !ready {
		return ErrAudioUnavailable
	}

	durationMs := w.samples * 1000 / sampleRate
	// beeep blocks for the tone length on some backends
	go func() {
		_ = systemBeep(w.freqFrom, durationMs)
	}()
	return nil
}
