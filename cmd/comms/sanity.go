package comms

import (
	"context"
	"time"

	"github.com/samber/lo"
)

const (
	criticalBelow = 20 // inclusive
	highBelow     = 50 // inclusive
	warnBelow     = 30 // inclusive
)

// RunSanity decays sanity on every interval tick until ctx is done.
func (c *Controller) RunSanity(ctx context.Context) {
	ticker := time.NewTicker(c.opts.SanityInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.decay()
		}
	}
}

// decay is one sanity tick. It does nothing while possessed.
func (c *Controller) decay() {
	var b batch
	c.mu.Lock()
	if c.possessed || c.closed {
		c.mu.Unlock()
		return
	}

	c.setSanityLocked(&b, lo.Clamp(c.sanity-c.opts.SanityStep, 0, MaxSanity))
	c.updateWarningLocked(&b)

	switch {
	case c.sanity == 0:
		c.enterPossessionLocked(&b)
	case c.sanity <= criticalBelow:
		c.setInterferenceLocked(&b, Critical)
	case c.sanity <= highBelow:
		c.setInterferenceLocked(&b, High)
	}
	c.mu.Unlock()

	c.apply(b)
}

func (c *Controller) updateWarningLocked(b *batch) {
	switch {
	case c.sanity > warnBelow:
		c.clearWarningLocked(b)
	case c.sanity > 0 && !c.possessed:
		c.raiseWarningLocked(b, WarningStability)
	}
}
