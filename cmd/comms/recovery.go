package comms

import (
	"slices"
	"time"
)

// Outcome is the result of feeding one token to the recovery matcher.
type Outcome int

const (
	Ignored  Outcome = iota // not possessed
	Advance                 // token matched, code not yet complete
	Reset                   // token did not match, progress dropped
	Complete                // full code matched
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Advance:
		return "advance"
	case Reset:
		return "reset"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	progressPitch     = 400.0
	progressPitchStep = 50.0
	progressLength    = 50 * time.Millisecond
)

// Matcher recognizes a fixed token sequence one token at a time. Any wrong
// token drops all progress, even when a shorter prefix would still match.
// It is not safe for concurrent use.
type Matcher struct {
	code     []string
	progress []string
}

func NewMatcher(code []string) *Matcher {
	return &Matcher{code: slices.Clone(code)}
}

func (m *Matcher) Feed(token string) Outcome {
	if len(m.code) == 0 {
		return Reset
	}
	if token != m.code[len(m.progress)] {
		m.progress = nil
		return Reset
	}
	m.progress = append(m.progress, token)
	if len(m.progress) == len(m.code) {
		m.progress = nil
		return Complete
	}
	return Advance
}

func (m *Matcher) Progress() []string {
	return slices.Clone(m.progress)
}

func (m *Matcher) Reset() {
	m.progress = nil
}

// OnKey feeds a key token to the recovery matcher. Input is ignored unless possessed.
func (c *Controller) OnKey(token string) Outcome {
	var b batch
	c.mu.Lock()
	if !c.possessed {
		c.mu.Unlock()
		return Ignored
	}

	depth := len(c.matcher.progress)
	outcome := c.matcher.Feed(token)
	switch outcome {
	case Advance, Complete:
		pitch := progressPitch + progressPitchStep*float64(depth+1)
		b.sound(func() { c.tone(pitch, progressLength) })
		b.event(Event{Kind: RecoveryProgressChanged, Progress: c.codePrefix(depth + 1)})
		if outcome == Complete {
			c.recoverLocked(&b, ReasonManual)
		}
	case Reset:
		if depth > 0 {
			b.sound(c.siren)
		}
		b.event(Event{Kind: RecoveryProgressChanged})
	}
	c.mu.Unlock()

	c.apply(b)
	return outcome
}

func (c *Controller) codePrefix(n int) []string {
	return slices.Clone(c.opts.RecoveryCode[:n])
}
