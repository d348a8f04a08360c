package comms

import (
	"sync"

	"github.com/samber/lo"
)

const (
	PanelRows   = 3
	PanelCols   = 5
	CenterLight = 7
)

// DashRow is the middle row of the panel, lit for a dash.
var DashRow = lo.RangeFrom(PanelCols, PanelCols)

// Panel is the grid of signal lights. It implements Indicators.
type Panel struct {
	mu     sync.RWMutex
	lights [PanelRows * PanelCols]bool
}

func NewPanel() *Panel {
	return &Panel{}
}

func (p *Panel) Len() int {
	return len(p.lights)
}

// Set switches a light. Out of range indexes are ignored.
func (p *Panel) Set(i int, on bool) {
	if i < 0 || i >= len(p.lights) {
		return
	}
	p.mu.Lock()
	p.lights[i] = on
	p.mu.Unlock()
}

// Snapshot returns the current light states in row-major order.
func (p *Panel) Snapshot() []bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]bool, len(p.lights))
	copy(out, p.lights[:])
	return out
}

// Lit returns the number of lights currently on.
func (p *Panel) Lit() int {
	return lo.Count(p.Snapshot(), true)
}
