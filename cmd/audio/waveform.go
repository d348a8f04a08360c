package audio

import (
	"math"
	"time"
)

const (
	startGain = 0.3
	endGain   = 0.01

	sirenLength = 500 * time.Millisecond
	sirenFrom   = 200.0
	sirenTo     = 800.0
)

// waveStreamer renders a short retro waveform with an exponential decay
// envelope. The pitch may sweep exponentially from freqFrom to freqTo.
type waveStreamer struct {
	samples  int
	position int
	phase    float64
	freqFrom float64
	freqTo   float64
	shape    func(phase float64) float64
}

func newTone(freq float64, d time.Duration) *waveStreamer {
	return &waveStreamer{
		samples:  samplesFor(d),
		freqFrom: freq,
		freqTo:   freq,
		shape:    square,
	}
}

func newSiren() *waveStreamer {
	return &waveStreamer{
		samples:  samplesFor(sirenLength),
		freqFrom: sirenFrom,
		freqTo:   sirenTo,
		shape:    sawtooth,
	}
}

func samplesFor(d time.Duration) int {
	return int(float64(sampleRate) * d.Seconds())
}

func (w *waveStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if w.position >= w.samples {
			return i, i > 0
		}

		progress := float64(w.position) / float64(w.samples)
		freq := expRamp(w.freqFrom, w.freqTo, progress)
		w.phase += freq / float64(sampleRate)
		w.phase -= math.Floor(w.phase)

		value := w.shape(w.phase) * expRamp(startGain, endGain, progress)
		samples[i][0] = value
		samples[i][1] = value
		w.position++
	}
	return len(samples), true
}

func (w *waveStreamer) Err() error {
	return nil
}

// expRamp interpolates exponentially from a to b, both must be positive.
func expRamp(a, b, progress float64) float64 {
	if a == b {
		return a
	}
	return a * math.Pow(b/a, progress)
}

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func sawtooth(phase float64) float64 {
	return 2*phase - 1
}
