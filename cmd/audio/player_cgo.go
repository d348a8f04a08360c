//go:build (linux && cgo) || windows || darwin

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Available indicates whether real audio output is supported in this build.
const Available = true

// player owns the beep speaker. Streamers are mixed, so tones may overlap.
type player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
}

func newPlayer() *player {
	return &player{
		sampleRate: beep.SampleRate(sampleRate),
	}
}

// init initializes the speaker if not already done.
func (p *player) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/20))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAudioUnavailable, err)
	}
	p.initialized = true
	return nil
}

func (p *player) play(s beep.Streamer) error {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()

	if !ready {
		return ErrAudioUnavailable
	}
	speaker.Play(s)
	return nil
}
