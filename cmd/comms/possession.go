package comms

import "time"

// Recovery confirmation: three ascending tones.
var confirmPitches = []float64{800, 1000, 1200}

const (
	confirmLength  = 100 * time.Millisecond
	confirmStagger = 150 * time.Millisecond
)

func (c *Controller) enterPossessionLocked(b *batch) {
	if c.possessed {
		return
	}

	c.possessed = true
	c.episode++
	c.matcher.Reset()
	c.setInterferenceLocked(b, Maximum)

	episode := c.episode
	c.deadline = time.AfterFunc(c.opts.AutoRecovery, func() {
		c.autoRecover(episode)
	})

	c.log.Warn("possession triggered", "episode", episode, "auto_recovery", c.opts.AutoRecovery)
	b.sound(c.siren)
	b.event(Event{Kind: PossessionEntered, Sanity: c.sanity, Interference: Maximum})
}

// ForceRecovery ends a possession immediately. It is a no-op when not possessed.
func (c *Controller) ForceRecovery() {
	var b batch
	c.mu.Lock()
	c.recoverLocked(&b, ReasonForced)
	c.mu.Unlock()
	c.apply(b)
}

func (c *Controller) autoRecover(episode uint64) {
	var b batch
	c.mu.Lock()
	// a manual recovery may have won the race against the timer
	if !c.possessed || c.episode != episode || c.closed {
		c.mu.Unlock()
		return
	}
	c.recoverLocked(&b, ReasonAuto)
	c.raiseWarningLocked(&b, WarningAutoRecovery)
	c.mu.Unlock()
	c.apply(b)
}

func (c *Controller) recoverLocked(b *batch, reason Reason) {
	if !c.possessed {
		return
	}

	c.possessed = false
	if c.deadline != nil {
		c.deadline.Stop()
		c.deadline = nil
	}
	c.matcher.Reset()
	c.setSanityLocked(b, MaxSanity)
	c.setInterferenceLocked(b, Minimal)
	c.clearWarningLocked(b)

	c.log.Info("recovery successful", "episode", c.episode, "reason", reason)
	b.sound(c.confirm)
	b.event(Event{Kind: PossessionExited, Reason: reason, Sanity: MaxSanity})
}

func (c *Controller) confirm() {
	for i, pitch := range confirmPitches {
		if i == 0 {
			c.tone(pitch, confirmLength)
			continue
		}
		time.AfterFunc(time.Duration(i)*confirmStagger, func() {
			c.tone(pitch, confirmLength)
		})
	}
}
