package comms

import (
	"time"

	"github.com/gigurra/upsidedown/cmd/morse"
	"github.com/samber/lo"
)

const (
	DotPitch  = 800.0
	DashPitch = 600.0

	minFlashes     = 5
	flashSpread    = 10 // flash count is minFlashes + [0, flashSpread)
	minGarblePitch = 200.0
	garbleSpread   = 800.0
)

// Timing holds the emission durations.
type Timing struct {
	Dot       time.Duration
	Dash      time.Duration
	LetterGap time.Duration
	WordGap   time.Duration
	SymbolGap time.Duration // after every symbol
	Flash     time.Duration // one corrupted micro-flash, on and off alike
}

func DefaultTiming() Timing {
	return Timing{
		Dot:       200 * time.Millisecond,
		Dash:      600 * time.Millisecond,
		LetterGap: 400 * time.Millisecond,
		WordGap:   800 * time.Millisecond,
		SymbolGap: 200 * time.Millisecond,
		Flash:     50 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.Dot <= 0 {
		t.Dot = def.Dot
	}
	if t.Dash <= 0 {
		t.Dash = def.Dash
	}
	if t.LetterGap <= 0 {
		t.LetterGap = def.LetterGap
	}
	if t.WordGap <= 0 {
		t.WordGap = def.WordGap
	}
	if t.SymbolGap <= 0 {
		t.SymbolGap = def.SymbolGap
	}
	if t.Flash <= 0 {
		t.Flash = def.Flash
	}
	return t
}

// Emitter drives the lights and tones for one symbol at a time.
type Emitter struct {
	timing Timing
	lights Indicators
	rand   Rand
	tone   func(freq float64, d time.Duration)
}

// Emit blocks for the symbol's duration plus the inter-symbol gap. When
// corrupted, the symbol is replaced by a burst of random flashes.
func (e *Emitter) Emit(sym morse.Symbol, corrupted bool) {
	if corrupted {
		e.garble()
	} else {
		switch sym {
		case morse.Dot:
			e.pulse([]int{CenterLight}, e.timing.Dot, DotPitch)
		case morse.Dash:
			e.pulse(DashRow, e.timing.Dash, DashPitch)
		case morse.LetterGap:
			time.Sleep(e.timing.LetterGap)
		case morse.WordGap:
			time.Sleep(e.timing.WordGap)
		}
	}
	time.Sleep(e.timing.SymbolGap)
}

func (e *Emitter) pulse(lights []int, d time.Duration, pitch float64) {
	lights = lo.Filter(lights, func(i int, _ int) bool {
		return i < e.lights.Len()
	})
	e.setAll(lights, true)
	e.tone(pitch, d)
	time.Sleep(d)
	e.setAll(lights, false)
}

func (e *Emitter) garble() {
	flashes := minFlashes + e.rand.IntN(flashSpread)
	for range flashes {
		light := -1
		if n := e.lights.Len(); n > 0 {
			light = e.rand.IntN(n)
			e.lights.Set(light, true)
		}
		e.tone(minGarblePitch+e.rand.Float64()*garbleSpread, e.timing.Flash)
		time.Sleep(e.timing.Flash)
		if light >= 0 {
			e.lights.Set(light, false)
		}
		time.Sleep(e.timing.Flash)
	}
}

func (e *Emitter) setAll(lights []int, on bool) {
	for _, i := range lights {
		e.lights.Set(i, on)
	}
}
