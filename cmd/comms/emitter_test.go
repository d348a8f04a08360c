package comms

import (
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/gigurra/upsidedown/cmd/morse"
)

type toneLog struct {
	calls []soundCall
}

func (l *toneLog) tone(freq float64, d time.Duration) {
	l.calls = append(l.calls, soundCall{at: time.Now(), freq: freq, d: d})
}

func newTestEmitter(lights Indicators, r Rand) (*Emitter, *toneLog) {
	tl := &toneLog{}
	return &Emitter{
		timing: DefaultTiming(),
		lights: lights,
		rand:   r,
		tone:   tl.tone,
	}, tl
}

func TestEmitDurations(t *testing.T) {
	tests := []struct {
		name  string
		sym   morse.Symbol
		want  time.Duration
		tones int
	}{
		{"dot", morse.Dot, 400 * time.Millisecond, 1},
		{"dash", morse.Dash, 800 * time.Millisecond, 1},
		{"letter gap", morse.LetterGap, 600 * time.Millisecond, 0},
		{"word gap", morse.WordGap, 1000 * time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				e, tl := newTestEmitter(NewPanel(), &scriptedRand{ints: []int{0}, floats: []float64{0}})
				start := time.Now()
				e.Emit(tt.sym, false)
				if got := time.Since(start); got != tt.want {
					t.Errorf("Emit(%v) took %v, want %v", tt.sym, got, tt.want)
				}
				if len(tl.calls) != tt.tones {
					t.Errorf("Emit(%v) played %d tones, want %d", tt.sym, len(tl.calls), tt.tones)
				}
			})
		})
	}
}

func TestEmitDotLightsCenter(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		panel := NewPanel()
		e, tl := newTestEmitter(panel, &scriptedRand{ints: []int{0}, floats: []float64{0}})

		done := make(chan struct{})
		go func() {
			e.Emit(morse.Dot, false)
			close(done)
		}()

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		lit := panel.Snapshot()
		if !lit[CenterLight] || panel.Lit() != 1 {
			t.Errorf("expected only the center light during a dot, got %v", lit)
		}

		time.Sleep(200 * time.Millisecond) // in the symbol gap
		synctest.Wait()
		if panel.Lit() != 0 {
			t.Errorf("lights still on after the dot")
		}
		<-done

		if len(tl.calls) != 1 || tl.calls[0].freq != DotPitch || tl.calls[0].d != 200*time.Millisecond {
			t.Errorf("unexpected dot tone %+v", tl.calls)
		}
	})
}

func TestEmitDashLightsRow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		panel := NewPanel()
		e, tl := newTestEmitter(panel, &scriptedRand{ints: []int{0}, floats: []float64{0}})

		done := make(chan struct{})
		go func() {
			e.Emit(morse.Dash, false)
			close(done)
		}()

		time.Sleep(500 * time.Millisecond)
		synctest.Wait()
		var lit []int
		for i, on := range panel.Snapshot() {
			if on {
				lit = append(lit, i)
			}
		}
		if !slices.Equal(lit, []int{5, 6, 7, 8, 9}) {
			t.Errorf("lit during dash = %v, want the middle row", lit)
		}
		<-done

		if len(tl.calls) != 1 || tl.calls[0].freq != DashPitch || tl.calls[0].d != 600*time.Millisecond {
			t.Errorf("unexpected dash tone %+v", tl.calls)
		}
		if panel.Lit() != 0 {
			t.Errorf("lights still on after the dash")
		}
	})
}

func TestEmitCorrupted(t *testing.T) {
	tests := []struct {
		name    string
		roll    int
		pitch   float64
		flashes int
	}{
		{"fewest", 0, 0, 5},
		{"most", 9, 0.999, 14},
		{"middle", 4, 0.5, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				lights := &lightLog{n: 15}
				e, tl := newTestEmitter(lights, &scriptedRand{ints: []int{tt.roll}, floats: []float64{tt.pitch}})

				start := time.Now()
				e.Emit(morse.Dash, true)
				elapsed := time.Since(start)

				want := time.Duration(tt.flashes)*100*time.Millisecond + 200*time.Millisecond
				if elapsed != want {
					t.Errorf("corrupted emit took %v, want %v", elapsed, want)
				}
				if len(tl.calls) != tt.flashes {
					t.Fatalf("played %d tones, want %d", len(tl.calls), tt.flashes)
				}
				for _, call := range tl.calls {
					if call.d != 50*time.Millisecond {
						t.Errorf("flash tone length %v, want 50ms", call.d)
					}
					if call.freq < 200 || call.freq >= 1000 {
						t.Errorf("flash pitch %f outside [200,1000)", call.freq)
					}
					if call.freq != 200+tt.pitch*800 {
						t.Errorf("flash pitch %f, want %f", call.freq, 200+tt.pitch*800)
					}
				}
				changes := lights.changes()
				if len(changes) != 2*tt.flashes {
					t.Fatalf("expected %d light changes, got %d", 2*tt.flashes, len(changes))
				}
				for i := 0; i < len(changes); i += 2 {
					on, off := changes[i], changes[i+1]
					if !on.on || off.on || on.i != off.i || on.i != tt.roll {
						t.Errorf("flash %d: unexpected changes %+v %+v", i/2, on, off)
					}
					if off.at.Sub(on.at) != 50*time.Millisecond {
						t.Errorf("flash %d lasted %v", i/2, off.at.Sub(on.at))
					}
				}
			})
		})
	}
}

func TestEmitWithoutLights(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, tl := newTestEmitter(&lightLog{n: 0}, &scriptedRand{ints: []int{0}, floats: []float64{0}})
		e.Emit(morse.Dot, false)
		e.Emit(morse.Dash, true)
		if len(tl.calls) != 6 {
			t.Errorf("expected tones without lights, got %d", len(tl.calls))
		}
	})
}

func TestPanel(t *testing.T) {
	p := NewPanel()
	if p.Len() != PanelRows*PanelCols {
		t.Fatalf("panel has %d lights", p.Len())
	}
	p.Set(-1, true)
	p.Set(99, true)
	if p.Lit() != 0 {
		t.Errorf("out of range Set changed the panel")
	}
	p.Set(3, true)
	snap := p.Snapshot()
	snap[4] = true
	if p.Lit() != 1 {
		t.Errorf("snapshot aliases panel state")
	}
	if !slices.Equal(DashRow, []int{5, 6, 7, 8, 9}) {
		t.Errorf("DashRow = %v", DashRow)
	}
}
