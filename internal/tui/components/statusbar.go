package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/colors"
)

type connState int

const (
	stateConnecting connState = iota
	stateConnected
	stateDisconnected
)

type StatusBar struct {
	mode     string
	portPath string
	state    connState
	err      error
	width    int
	settings *serial.Options
	rxBytes  int
}

func NewStatusBar(mode, portPath string) *StatusBar {
	return &StatusBar{
		mode:     mode,
		portPath: portPath,
		state:    stateConnecting,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetSettings shows the line settings applied to the open port
func (sb *StatusBar) SetSettings(o serial.Options) {
	sb.settings = &o
}

func (sb *StatusBar) SetRXBytes(n int) {
	sb.rxBytes = n
}

func (sb *StatusBar) SetConnected() {
	sb.state = stateConnected
	sb.err = nil
}

// SetDisconnected records why the port went away; nil means end of stream
func (sb *StatusBar) SetDisconnected(err error) {
	sb.state = stateDisconnected
	sb.err = err
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// SettingsSummary renders options the way modem software does, e.g.
// "115200 8N1 RTS/CTS"
func SettingsSummary(o serial.Options) string {
	flow := "none"
	if o.FlowControl() == serial.FlowControlRTSCTS {
		flow = "RTS/CTS"
	}
	return fmt.Sprintf("%d %d%s%d %s", o.BaudRate, o.BitsPerChar, parityLetter(o.Parity), o.StopBits, flow)
}

func parityLetter(p serial.Parity) string {
	switch p {
	case serial.ParityNone:
		return "N"
	case serial.ParityOdd:
		return "O"
	case serial.ParityEven:
		return "E"
	default:
		return "?"
	}
}

func (sb *StatusBar) indicator() string {
	switch {
	case sb.err != nil:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	case sb.state == stateConnected:
		return lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	case sb.state == stateConnecting:
		return lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	default:
		return lipgloss.NewStyle().Foreground(colors.Red).Render("○")
	}
}

// View renders mode, port, connection state, line settings, received bytes
// and the clock on one line
func (sb *StatusBar) View(timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1).
		Render(sb.mode)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, sb.indicator(), divider)
	if sb.err != nil {
		errText := lipgloss.NewStyle().Foreground(colors.Red).Render(sb.err.Error())
		left = lipgloss.JoinHorizontal(lipgloss.Left, left, errText)
	}

	details := "⚡ serial"
	if sb.settings != nil {
		details = "⚡ " + SettingsSummary(*sb.settings)
	}
	detailsView := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(details)

	rx := lipgloss.NewStyle().
		Foreground(colors.Peach).
		Padding(0, 1).
		Render(fmt.Sprintf("RX %d", sb.rxBytes))

	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	right := lipgloss.JoinHorizontal(lipgloss.Left, detailsView, divider, rx, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}
