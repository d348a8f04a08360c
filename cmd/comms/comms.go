// Package comms implements the communicator's signal core: timed Morse pulse
// emission, the sanity countdown, possession and its recovery code, and the
// transmission orchestrator that ties them together.
//
// All shared state lives in a Controller and is changed only through its
// transition methods. Side effects (listeners, audio) run outside its lock.
package comms

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

var (
	ErrEmptyInput          = errors.New("no message to transmit")
	ErrAlreadyTransmitting = errors.New("transmission already in progress")
)

const (
	MaxSanity = 100

	WarningStability    = "!!! WARNING: NEURAL STABILITY CRITICAL !!!"
	WarningAutoRecovery = "AUTO-RECOVERY INITIATED"
)

// DefaultRecoveryCode is the key sequence that ends a possession.
var DefaultRecoveryCode = []string{"UP", "UP", "DOWN", "DOWN"}

// Speaker plays tones. Tone and Siren must not block for the sound's length.
type Speaker interface {
	Init() error
	Tone(freq float64, d time.Duration) error
	Siren() error
}

// Indicators are the lights a transmission drives.
type Indicators interface {
	Len() int
	Set(i int, on bool)
}

// Rand is the random source behind corrupted emission and input scrambling.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type systemRand struct{}

func (systemRand) IntN(n int) int   { return rand.IntN(n) }
func (systemRand) Float64() float64 { return rand.Float64() }

// Options configures a Controller. Zero fields take the defaults.
type Options struct {
	Timing         Timing
	SanityInterval time.Duration
	SanityStep     int
	AutoRecovery   time.Duration
	RecoveryCode   []string

	Speaker    Speaker
	Indicators Indicators
	Rand       Rand
	Logger     *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Timing:         DefaultTiming(),
		SanityInterval: 3 * time.Second,
		SanityStep:     7,
		AutoRecovery:   30 * time.Second,
		RecoveryCode:   DefaultRecoveryCode,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	o.Timing = o.Timing.withDefaults()
	if o.SanityInterval <= 0 {
		o.SanityInterval = def.SanityInterval
	}
	if o.SanityStep <= 0 {
		o.SanityStep = def.SanityStep
	}
	if o.AutoRecovery <= 0 {
		o.AutoRecovery = def.AutoRecovery
	}
	if len(o.RecoveryCode) == 0 {
		o.RecoveryCode = def.RecoveryCode
	}
	if o.Indicators == nil {
		o.Indicators = NewPanel()
	}
	if o.Rand == nil {
		o.Rand = systemRand{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Controller owns the communicator state: sanity, possession, recovery
// progress and the in-flight transmission.
type Controller struct {
	opts    Options
	log     *slog.Logger
	speaker Speaker
	emitter *Emitter

	mu           sync.Mutex
	sanity       int
	interference Interference
	warning      string
	possessed    bool
	episode      uint64 // incremented on every possession entry
	deadline     *time.Timer
	matcher      *Matcher
	transmitting bool
	session      string
	audioReady   bool
	audioWarned  bool // init failure already logged at warn level
	closed       bool
	listeners    []Listener
}

// New creates a Controller at full sanity. A nil Speaker disables audio.
func New(opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:    opts,
		log:     opts.Logger,
		speaker: opts.Speaker,
		sanity:  MaxSanity,
		matcher: NewMatcher(opts.RecoveryCode),
	}
	if c.speaker == nil {
		c.speaker = noSpeaker{}
	}
	c.emitter = &Emitter{
		timing: opts.Timing,
		lights: opts.Indicators,
		rand:   opts.Rand,
		tone:   c.tone,
	}
	return c
}

// Subscribe registers a listener for all future events.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) SanityLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sanity
}

func (c *Controller) IsPossessed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.possessed
}

func (c *Controller) IsTransmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transmitting
}

// RecoveryProgress returns the recovery tokens matched so far.
func (c *Controller) RecoveryProgress() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matcher.Progress()
}

func (c *Controller) RecoveryCode() []string {
	return slices.Clone(c.opts.RecoveryCode)
}

func (c *Controller) Interference() Interference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interference
}

// Warning returns the active warning, or "" if none.
func (c *Controller) Warning() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warning
}

// Close stops the pending auto-recovery deadline and silences the controller.
// A transmission in flight still runs to completion.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.deadline != nil {
		c.deadline.Stop()
		c.deadline = nil
	}
}

// InitAudio initializes the speaker once. The first success plays a short
// two-tone confirmation. A failed init is retried on the next call and only
// the first failure is logged as a warning.
func (c *Controller) InitAudio() {
	c.mu.Lock()
	ready := c.audioReady
	c.mu.Unlock()
	if ready {
		return
	}

	if err := c.speaker.Init(); err != nil {
		c.mu.Lock()
		warned := c.audioWarned
		c.audioWarned = true
		c.mu.Unlock()
		if warned {
			c.log.Debug("audio init failed", "error", err)
		} else {
			c.log.Warn("audio init failed, continuing without sound", "error", err)
		}
		return
	}

	c.mu.Lock()
	ready = c.audioReady
	c.audioReady = true
	c.mu.Unlock()
	if ready {
		return
	}

	c.log.Info("audio system initialized")
	c.tone(800, 150*time.Millisecond)
	time.AfterFunc(200*time.Millisecond, func() { c.tone(1000, 150*time.Millisecond) })
	c.publish(Event{Kind: AudioReady})
}

func (c *Controller) apply(b batch) {
	for _, s := range b.sounds {
		s()
	}
	c.publish(b.events...)
}

func (c *Controller) publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			l(e)
		}
	}
}

func (c *Controller) tone(freq float64, d time.Duration) {
	if c.isClosed() {
		return
	}
	if err := c.speaker.Tone(freq, d); err != nil {
		c.logAudio("tone failed", err)
	}
}

func (c *Controller) siren() {
	if c.isClosed() {
		return
	}
	if err := c.speaker.Siren(); err != nil {
		c.logAudio("siren failed", err)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) logAudio(msg string, err error) {
	c.log.Debug(msg, "error", err)
}

func (c *Controller) setSanityLocked(b *batch, level int) {
	if level == c.sanity {
		return
	}
	c.sanity = level
	b.event(Event{Kind: SanityChanged, Sanity: level})
}

func (c *Controller) setInterferenceLocked(b *batch, level Interference) {
	if level == c.interference {
		return
	}
	c.interference = level
	b.event(Event{Kind: InterferenceChanged, Interference: level})
}

func (c *Controller) raiseWarningLocked(b *batch, msg string) {
	if msg == c.warning {
		return
	}
	c.warning = msg
	b.event(Event{Kind: WarningRaised, Warning: msg})
}

func (c *Controller) clearWarningLocked(b *batch) {
	if c.warning == "" {
		return
	}
	c.warning = ""
	b.event(Event{Kind: WarningCleared})
}

type noSpeaker struct{}

var errNoSpeaker = errors.New("no speaker configured")

func (noSpeaker) Init() error                      { return errNoSpeaker }
func (noSpeaker) Tone(float64, time.Duration) error { return errNoSpeaker }
func (noSpeaker) Siren() error                     { return errNoSpeaker }
