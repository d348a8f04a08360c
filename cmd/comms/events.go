package comms

// EventKind identifies a notification published by the Controller.
type EventKind int

const (
	SanityChanged EventKind = iota
	InterferenceChanged
	PossessionEntered
	PossessionExited
	TransmissionStarted
	TransmissionCompleted
	WarningRaised
	WarningCleared
	RecoveryProgressChanged
	AudioReady
)

func (k EventKind) String() string {
	switch k {
	case SanityChanged:
		return "sanity-changed"
	case InterferenceChanged:
		return "interference-changed"
	case PossessionEntered:
		return "possession-entered"
	case PossessionExited:
		return "possession-exited"
	case TransmissionStarted:
		return "transmission-started"
	case TransmissionCompleted:
		return "transmission-completed"
	case WarningRaised:
		return "warning-raised"
	case WarningCleared:
		return "warning-cleared"
	case RecoveryProgressChanged:
		return "recovery-progress"
	case AudioReady:
		return "audio-ready"
	default:
		return "unknown"
	}
}

// Interference is the displayed signal interference level.
type Interference int

const (
	Minimal Interference = iota
	High
	Critical
	Maximum // only while possessed
)

func (i Interference) String() string {
	switch i {
	case Minimal:
		return "MINIMAL"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	case Maximum:
		return "MAXIMUM"
	default:
		return "UNKNOWN"
	}
}

// Reason tells what ended a possession episode.
type Reason int

const (
	ReasonManual Reason = iota // recovery code entered
	ReasonAuto                 // auto-recovery deadline fired
	ReasonForced               // ForceRecovery called
)

func (r Reason) String() string {
	switch r {
	case ReasonManual:
		return "manual"
	case ReasonAuto:
		return "auto"
	case ReasonForced:
		return "forced"
	default:
		return "unknown"
	}
}

// Event is a state change notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind         EventKind
	Sanity       int
	Interference Interference
	Reason       Reason
	Warning      string
	Progress     []string
	Session      string
	Text         string
	Morse        string
}

// Listener receives events. It is called outside the controller's lock and
// may call back into the controller.
type Listener func(Event)

// batch collects the side effects of a transition so they can run after the
// lock is released.
type batch struct {
	events []Event
	sounds []func()
}

func (b *batch) event(e Event) {
	b.events = append(b.events, e)
}

func (b *batch) sound(f func()) {
	b.sounds = append(b.sounds, f)
}
