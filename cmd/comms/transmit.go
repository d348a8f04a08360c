package comms

import (
	"strings"

	"github.com/gigurra/upsidedown/cmd/morse"
	"github.com/google/uuid"
)

// Transmit encodes text and emits it, blocking until every symbol has been
// sent. Only one transmission runs at a time; a concurrent call fails with
// ErrAlreadyTransmitting instead of queueing. There is no way to cancel a
// transmission once started.
func (c *Controller) Transmit(text string) error {
	message := strings.TrimSpace(text)

	c.mu.Lock()
	if c.transmitting {
		c.mu.Unlock()
		return ErrAlreadyTransmitting
	}
	if message == "" {
		c.mu.Unlock()
		return ErrEmptyInput
	}
	session := uuid.NewString()
	c.transmitting = true
	c.session = session
	c.mu.Unlock()

	c.InitAudio()

	symbols := morse.Encode(message)
	code := morse.Render(symbols)
	c.log.Info("transmitting", "session", session, "message", message, "morse", code)
	c.publish(Event{Kind: TransmissionStarted, Session: session, Text: message, Morse: code})

	for _, sym := range symbols {
		// possession may start or end between any two symbols
		c.emitter.Emit(sym, c.IsPossessed())
	}

	c.mu.Lock()
	c.transmitting = false
	c.session = ""
	c.mu.Unlock()

	c.log.Info("transmission complete", "session", session, "symbols", len(symbols))
	c.publish(Event{Kind: TransmissionCompleted, Session: session, Text: message, Morse: code})
	return nil
}
