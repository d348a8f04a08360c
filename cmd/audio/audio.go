// Package audio plays the communicator's tones and alert siren.
package audio

import (
	"errors"
	"time"
)

// ErrAudioUnavailable is returned when a tone is requested before the audio
// device has been initialized, or when the device cannot be used at all.
var ErrAudioUnavailable = errors.New("audio unavailable")

const sampleRate = 44100

// Speaker plays tones through the system audio device. The zero value is not
// usable, create one with New.
type Speaker struct {
	p *player
}

// New creates a Speaker. No device is opened until Init is called.
func New() *Speaker {
	return &Speaker{p: newPlayer()}
}

// Init opens the audio device. Calling it again after a successful call is a no-op.
func (s *Speaker) Init() error {
	return s.p.init()
}

// Tone starts a tone of the given pitch and length and returns immediately.
func (s *Speaker) Tone(freq float64, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.p.play(newTone(freq, d))
}

// Siren starts the rising alert sweep and returns immediately.
func (s *Speaker) Siren() error {
	return s.p.play(newSiren())
}

// Silent is a Speaker stand-in for headless runs with audio disabled.
type Silent struct{}

func (Silent) Init() error                      { return ErrAudioUnavailable }
func (Silent) Tone(float64, time.Duration) error { return ErrAudioUnavailable }
func (Silent) Siren() error                     { return ErrAudioUnavailable }
