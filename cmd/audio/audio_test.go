package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func drain(w *waveStreamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := w.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneLength(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{50 * time.Millisecond, 2205},
		{200 * time.Millisecond, 8820},
		{600 * time.Millisecond, 26460},
	}
	for _, tc := range tests {
		got := len(drain(newTone(800, tc.d)))
		if got != tc.want {
			t.Errorf("tone(%v) rendered %d samples, want %d", tc.d, got, tc.want)
		}
	}
}

func TestToneEnvelopeDecays(t *testing.T) {
	samples := drain(newTone(600, 100*time.Millisecond))
	first := math.Abs(samples[0][0])
	last := math.Abs(samples[len(samples)-1][0])
	if first > startGain+1e-9 {
		t.Errorf("first sample %f exceeds start gain", first)
	}
	if last >= first {
		t.Errorf("expected decay, first %f last %f", first, last)
	}
	for i, s := range samples {
		if s[0] != s[1] {
			t.Fatalf("sample %d is not mono: %v", i, s)
		}
	}
}

func TestSirenSweep(t *testing.T) {
	w := newSiren()
	if got := len(drain(w)); got != samplesFor(sirenLength) {
		t.Errorf("siren rendered %d samples, want %d", got, samplesFor(sirenLength))
	}
	if got := expRamp(sirenFrom, sirenTo, 1); math.Abs(got-sirenTo) > 1e-9 {
		t.Errorf("sweep ends at %f, want %f", got, sirenTo)
	}
	if got := expRamp(sirenFrom, sirenTo, 0.5); math.Abs(got-400) > 1e-9 {
		t.Errorf("sweep midpoint %f, want 400", got)
	}
}

func TestStreamExhausted(t *testing.T) {
	w := newTone(800, 10*time.Millisecond)
	drain(w)
	n, ok := w.Stream(make([][2]float64, 16))
	if n != 0 || ok {
		t.Errorf("exhausted stream returned (%d, %v), want (0, false)", n, ok)
	}
}

func TestToneBeforeInit(t *testing.T) {
	s := New()
	if err := s.Tone(800, 50*time.Millisecond); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Tone before Init returned %v, want ErrAudioUnavailable", err)
	}
	if err := s.Siren(); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Siren before Init returned %v, want ErrAudioUnavailable", err)
	}
}

func TestSilent(t *testing.T) {
	var s Silent
	if err := s.Init(); !errors.Is(err, ErrAudioUnavailable) {
		t.Errorf("Silent.Init returned %v", err)
	}
}
