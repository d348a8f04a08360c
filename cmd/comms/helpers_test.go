package comms

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type soundCall struct {
	at    time.Time
	freq  float64
	d     time.Duration
	siren bool
}

type fakeSpeaker struct {
	mu      sync.Mutex
	inits   int
	initErr error
	toneErr error
	calls   []soundCall
}

func (s *fakeSpeaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inits++
	return s.initErr
}

func (s *fakeSpeaker) Tone(freq float64, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, soundCall{at: time.Now(), freq: freq, d: d})
	return s.toneErr
}

func (s *fakeSpeaker) Siren() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, soundCall{at: time.Now(), siren: true})
	return s.toneErr
}

func (s *fakeSpeaker) tones() []soundCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []soundCall
	for _, c := range s.calls {
		if !c.siren {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeSpeaker) sirens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.siren {
			n++
		}
	}
	return n
}

func (s *fakeSpeaker) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// scriptedRand cycles through fixed values. IntN returns the next int modulo n.
type scriptedRand struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	ii, fi int
}

func (r *scriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	return len(r.ofKind(kind))
}

func (r *recorder) ofKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type lightSet struct {
	at time.Time
	i  int
	on bool
}

// lightLog is an Indicators that records every change.
type lightLog struct {
	mu   sync.Mutex
	n    int
	sets []lightSet
}

func (l *lightLog) Len() int { return l.n }

func (l *lightLog) Set(i int, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets = append(l.sets, lightSet{at: time.Now(), i: i, on: on})
}

func (l *lightLog) changes() []lightSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]lightSet, len(l.sets))
	copy(out, l.sets)
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T, opts Options) (*Controller, *fakeSpeaker, *recorder) {
	t.Helper()
	sp, ok := opts.Speaker.(*fakeSpeaker)
	if !ok {
		sp = &fakeSpeaker{}
		opts.Speaker = sp
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	c := New(opts)
	rec := &recorder{}
	c.Subscribe(rec.listen)
	t.Cleanup(c.Close)
	return c, sp, rec
}

// possess decays sanity until possession starts.
func possess(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 50 && !c.IsPossessed(); i++ {
		c.decay()
	}
	if !c.IsPossessed() {
		t.Fatalf("controller not possessed after decaying, sanity %d", c.SanityLevel())
	}
}

// readyAudio initializes audio and lets the confirmation tones play out, then
// clears the recorded sounds. Must run inside a synctest bubble.
func readyAudio(c *Controller, sp *fakeSpeaker) {
	c.InitAudio()
	time.Sleep(time.Second)
	sp.reset()
}
