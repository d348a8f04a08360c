package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/morse"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // Green
	cautionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Orange
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	litStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	darkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	inputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	panelBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("52")).Padding(0, 2)
)

const sanityBarWidth = 20

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("HAWKINS NATIONAL LABORATORY"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("INTER-DIMENSIONAL COMMUNICATION TERMINAL V1.983"))
	b.WriteString("\n\n")

	b.WriteString(panelBox.Render(m.renderLights()))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("SANITY       "))
	b.WriteString(m.sanityStyle().Render(sanityBar(m.sanity, sanityBarWidth)))
	b.WriteString("\n")
	b.WriteString(m.readout("SYSTEM", m.systemStatus(), m.possessedStyle()))
	b.WriteString(m.readout("DIMENSION", m.dimension(), m.possessedStyle()))
	b.WriteString(m.readout("INTERFERENCE", m.interference.String(), interferenceStyle(m.interference)))
	b.WriteString(m.readout("SIGNAL", m.status, okStyle))
	if m.lastMorse != "" {
		b.WriteString(m.readout("MORSE", m.lastMorse, subtleStyle))
	}
	b.WriteString("\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n\n")

	if zone := m.renderWarnings(); zone != "" {
		b.WriteString(zone)
		b.WriteString("\n\n")
	}

	if m.possessed {
		b.WriteString(dangerStyle.Render("RECOVERY SEQUENCE: "))
		b.WriteString(cautionStyle.Render(m.recoveryText()))
		b.WriteString("\n\n")
	}

	if m.showDecoder {
		b.WriteString(morse.AlphabetTable(6))
		b.WriteString("\n\n")
	}

	help := "enter transmit • tab decoder • esc quit"
	if !m.audioReady {
		help += " • press any key to initialize audio"
	}
	b.WriteString(subtleStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderLights() string {
	rows := make([]string, 0, comms.PanelRows)
	for r := 0; r < comms.PanelRows; r++ {
		cells := make([]string, 0, comms.PanelCols)
		for c := 0; c < comms.PanelCols; c++ {
			i := r*comms.PanelCols + c
			lit := i == m.spike || (i < len(m.lights) && m.lights[i])
			if lit {
				cells = append(cells, litStyle.Render("●"))
			} else {
				cells = append(cells, darkStyle.Render("○"))
			}
		}
		rows = append(rows, strings.Join(cells, "   "))
	}
	return strings.Join(rows, "\n")
}

func (m model) readout(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(runewidth.FillRight(label, 13)) + style.Render(value) + "\n"
}

func (m model) renderInput() string {
	line := m.input
	if !m.busy {
		line += "_"
	}
	avail := m.width - 4
	if avail < 10 {
		avail = 10
	}
	line = runewidth.Truncate(line, avail, "…")
	return inputStyle.Render("> " + line)
}

func (m model) renderWarnings() string {
	var lines []string
	if m.warning != "" {
		lines = append(lines, dangerStyle.Render(m.warning))
	}
	if m.notice != "" {
		lines = append(lines, cautionStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m model) sanityStyle() lipgloss.Style {
	switch {
	case m.sanity <= 20:
		return dangerStyle
	case m.sanity <= 50:
		return cautionStyle
	default:
		return okStyle
	}
}

func (m model) possessedStyle() lipgloss.Style {
	if m.possessed {
		return dangerStyle
	}
	return okStyle
}

func interferenceStyle(level comms.Interference) lipgloss.Style {
	switch level {
	case comms.Minimal:
		return okStyle
	case comms.High:
		return cautionStyle
	default:
		return dangerStyle
	}
}
