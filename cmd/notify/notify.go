// Package notify raises desktop notifications for possession changes.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/config"
)

var notifySend = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

var now = time.Now

// Notifier sends at most one notification per cooldown window.
type Notifier struct {
	cooldown time.Duration

	mu   sync.Mutex
	last time.Time
}

// New returns a Notifier for the given config, or nil when notifications are disabled.
func New(cfg *config.NotificationConfig) *Notifier {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Notifier{cooldown: time.Duration(cfg.CooldownSeconds) * time.Second}
}

// Attach subscribes the notifier to a controller. A nil notifier does nothing.
func (n *Notifier) Attach(c *comms.Controller) {
	if n == nil {
		return
	}
	c.Subscribe(n.OnEvent)
}

// OnEvent is a comms.Listener.
func (n *Notifier) OnEvent(e comms.Event) {
	title, body, ok := message(e)
	if !ok {
		return
	}

	n.mu.Lock()
	t := now()
	if !n.last.IsZero() && t.Sub(n.last) < n.cooldown {
		n.mu.Unlock()
		return
	}
	n.last = t
	n.mu.Unlock()

	// beeep shells out on some platforms
	go func() {
		if err := notifySend(title, body); err != nil {
			slog.Debug("notification failed", "title", title, "error", err)
		}
	}()
}

func message(e comms.Event) (title, body string, ok bool) {
	switch e.Kind {
	case comms.PossessionEntered:
		return "Signal lost", "The communicator is possessed. Enter the recovery code.", true
	case comms.PossessionExited:
		return "Signal restored", fmt.Sprintf("Possession ended (%s recovery).", e.Reason), true
	default:
		return "", "", false
	}
}
