package terminal

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/morse"
)

const (
	statusReady        = "READY"
	statusTransmitting = "TRANSMITTING..."
	statusComplete     = "TRANSMISSION COMPLETE"

	noticeEmpty = "NO MESSAGE TO TRANSMIT"

	frameInterval = 50 * time.Millisecond
	readyDelay    = time.Second

	// Idle flicker of a random light while sanity is low.
	spikeInterval = 3 * time.Second
	spikeLength   = 100 * time.Millisecond
	spikeChance   = 0.1
	spikeSanity   = 70

	maxInput = 50

	// Events waiting for the UI loop. Further events are dropped.
	eventBuffer = 256
)

type tickMsg time.Time

type spikeTickMsg time.Time

type spikeEndMsg struct{}

type eventMsg comms.Event

type transmitDoneMsg struct {
	err error
}

type readyMsg struct{}

type model struct {
	ctrl   *comms.Controller
	panel  *comms.Panel
	rand   comms.Rand
	events chan comms.Event

	input     string
	busy      bool
	status    string
	notice    string
	lastMorse string

	sanity       int
	interference comms.Interference
	warning      string
	possessed    bool
	progress     []string
	audioInit    bool
	audioReady   bool

	lights      []bool
	spike       int
	showDecoder bool
	width       int
}

func newModel(ctrl *comms.Controller, panel *comms.Panel, r comms.Rand) model {
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	events := make(chan comms.Event, eventBuffer)
	ctrl.Subscribe(forwardTo(events))
	return model{
		ctrl:         ctrl,
		panel:        panel,
		rand:         r,
		events:       events,
		status:       statusReady,
		sanity:       ctrl.SanityLevel(),
		interference: ctrl.Interference(),
		warning:      ctrl.Warning(),
		possessed:    ctrl.IsPossessed(),
		lights:       panel.Snapshot(),
		spike:        -1,
		width:        80,
	}
}

// forwardTo returns a listener that queues events for the UI loop. It must
// not block: Update calls into the controller and is also the queue's reader.
func forwardTo(events chan<- comms.Event) comms.Listener {
	return func(e comms.Event) {
		select {
		case events <- e:
		default:
			slog.Warn("ui event queue full, dropping event", "kind", e.Kind)
		}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), spikeTickCmd(), waitForEvent(m.events))
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func spikeTickCmd() tea.Cmd {
	return tea.Tick(spikeInterval, func(t time.Time) tea.Msg {
		return spikeTickMsg(t)
	})
}

func waitForEvent(events <-chan comms.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

func transmitCmd(ctrl *comms.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return transmitDoneMsg{err: ctrl.Transmit(text)}
	}
}

func initAudioCmd(ctrl *comms.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.InitAudio()
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.lights = m.panel.Snapshot()
		return m, tickCmd()

	case spikeTickMsg:
		if !m.possessed && m.sanity < spikeSanity && m.rand.Float64() < spikeChance {
			m.spike = m.rand.IntN(comms.PanelRows * comms.PanelCols)
			return m, tea.Batch(spikeTickCmd(), tea.Tick(spikeLength, func(time.Time) tea.Msg {
				return spikeEndMsg{}
			}))
		}
		return m, spikeTickCmd()

	case spikeEndMsg:
		m.spike = -1

	case eventMsg:
		m = m.applyEvent(comms.Event(msg))
		return m, waitForEvent(m.events)

	case transmitDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.status = statusReady
			m.notice = strings.ToUpper(msg.err.Error())
			return m, nil
		}
		m.status = statusComplete
		return m, tea.Tick(readyDelay, func(time.Time) tea.Msg {
			return readyMsg{}
		})

	case readyMsg:
		m.busy = false
		m.status = statusReady
		m.input = ""
	}

	return m, nil
}

func (m model) applyEvent(e comms.Event) model {
	switch e.Kind {
	case comms.SanityChanged:
		m.sanity = e.Sanity
	case comms.InterferenceChanged:
		m.interference = e.Interference
	case comms.PossessionEntered:
		m.possessed = true
		m.progress = nil
	case comms.PossessionExited:
		m.possessed = false
		m.progress = nil
	case comms.WarningRaised:
		m.warning = e.Warning
	case comms.WarningCleared:
		m.warning = ""
	case comms.RecoveryProgressChanged:
		m.progress = e.Progress
	case comms.TransmissionStarted:
		m.lastMorse = e.Morse
	case comms.AudioReady:
		m.audioReady = true
	}
	return m
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.showDecoder = !m.showDecoder
		return m, nil
	}

	var cmds []tea.Cmd
	if !m.audioInit {
		m.audioInit = true
		cmds = append(cmds, initAudioCmd(m.ctrl))
	}

	if m.possessed {
		if token := tokenFor(msg); token != "" {
			m.ctrl.OnKey(token)
		}
	}

	if msg.Type == tea.KeyEnter {
		if m.busy {
			return m, tea.Batch(cmds...)
		}
		text := strings.TrimSpace(m.input)
		if text == "" {
			m.notice = noticeEmpty
			return m, tea.Batch(cmds...)
		}
		m.busy = true
		m.notice = ""
		m.status = statusTransmitting
		m.lastMorse = morse.Render(morse.Encode(text))
		cmds = append(cmds, transmitCmd(m.ctrl, text))
		return m, tea.Batch(cmds...)
	}

	m = m.edit(msg)
	return m, tea.Batch(cmds...)
}

func (m model) edit(msg tea.KeyMsg) model {
	if m.busy {
		return m
	}
	runes := []rune(m.input)
	switch msg.Type {
	case tea.KeyBackspace:
		if len(runes) == 0 {
			return m
		}
		runes = runes[:len(runes)-1]
	case tea.KeySpace:
		runes = append(runes, ' ')
	case tea.KeyRunes:
		runes = append(runes, msg.Runes...)
	default:
		return m
	}
	if len(runes) > maxInput {
		runes = runes[:maxInput]
	}
	m.notice = ""
	m.input = m.ctrl.Scramble(string(runes))
	return m
}

// tokenFor maps a key press to a recovery token: arrows become their
// direction name, printable keys their upper-case text.
func tokenFor(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyUp:
		return "UP"
	case tea.KeyDown:
		return "DOWN"
	case tea.KeyLeft:
		return "LEFT"
	case tea.KeyRight:
		return "RIGHT"
	case tea.KeySpace:
		return "SPACE"
	case tea.KeyRunes:
		return strings.ToUpper(string(msg.Runes))
	default:
		return strings.ToUpper(msg.String())
	}
}

func (m model) systemStatus() string {
	if m.possessed {
		return "COMPROMISED"
	}
	return "OPERATIONAL"
}

func (m model) dimension() string {
	if m.possessed {
		return "UPSIDE DOWN"
	}
	return "NORMAL"
}

func (m model) recoveryText() string {
	if len(m.progress) == 0 {
		return "WAITING FOR INPUT..."
	}
	return strings.Join(m.progress, " ")
}

func sanityBar(level, width int) string {
	filled := level * width / comms.MaxSanity
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), level)
}
