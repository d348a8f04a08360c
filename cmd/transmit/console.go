package transmit

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// console prints controller events and, on a terminal, redraws the light
// panel as a single lamp line.
type console struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	lights      [comms.PanelRows * comms.PanelCols]bool
}

func newConsole(w io.Writer, interactive bool) *console {
	return &console{w: w, interactive: interactive}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *console) Len() int {
	return len(c.lights)
}

func (c *console) Set(i int, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.lights) || c.lights[i] == on {
		return
	}
	c.lights[i] = on
	c.drawLocked()
}

func (c *console) drawLocked() {
	fmt.Fprint(c.w, "\r"+c.lampLocked())
}

func (c *console) lampLocked() string {
	groups := make([]string, 0, comms.PanelRows)
	for r := 0; r < comms.PanelRows; r++ {
		var b strings.Builder
		for _, lit := range c.lights[r*comms.PanelCols : (r+1)*comms.PanelCols] {
			if lit {
				b.WriteString(text.Colors{text.FgHiYellow, text.Bold}.Sprint("●"))
			} else {
				b.WriteString(text.FgHiBlack.Sprint("○"))
			}
		}
		groups = append(groups, b.String())
	}
	return strings.Join(groups, " ")
}

// OnEvent is a comms.Listener.
func (c *console) OnEvent(e comms.Event) {
	line, ok := describe(e)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interactive {
		fmt.Fprint(c.w, "\r\033[K")
	}
	fmt.Fprintln(c.w, line)
	if c.interactive {
		c.drawLocked()
	}
}

func describe(e comms.Event) (string, bool) {
	switch e.Kind {
	case comms.TransmissionStarted:
		return fmt.Sprintf("TRANSMITTING: %s\nMORSE CODE: %s", e.Text, e.Morse), true
	case comms.TransmissionCompleted:
		return "TRANSMISSION COMPLETE", true
	case comms.SanityChanged:
		return fmt.Sprintf("SANITY: %d%%", e.Sanity), true
	case comms.InterferenceChanged:
		return "INTERFERENCE: " + e.Interference.String(), true
	case comms.PossessionEntered:
		return "SYSTEM COMPROMISED: DIMENSION UPSIDE DOWN", true
	case comms.PossessionExited:
		return fmt.Sprintf("SYSTEM OPERATIONAL (%s recovery)", e.Reason), true
	case comms.WarningRaised:
		return e.Warning, true
	default:
		return "", false
	}
}
