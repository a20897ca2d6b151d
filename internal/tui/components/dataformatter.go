package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mbedsys/serialite/internal/tui/colors"
)

// DataReceivedMsg carries one chunk read from the port
type DataReceivedMsg struct {
	Timestamp time.Time
	Data      []byte
}

type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(mode DisplayMode) *DataFormatter {
	return &DataFormatter{mode: mode}
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	var parts []string

	if df.mode.ShowHex {
		parts = append(parts, "HEX: "+HexBytes(msg.Data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+PrintableASCII(msg.Data))
	}
	// If both are disabled, show raw bytes count
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(msg.Data)))
	}

	indicator := lipgloss.NewStyle().
		Foreground(colors.Sky).
		Bold(true).
		Render("↙ RX")

	line := fmt.Sprintf("%s: %s", indicator, strings.Join(parts, "  "))
	if !df.mode.ShowTimestamps {
		return line
	}

	timestamp := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000")))
	return timestamp + " " + line
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}

// HexBytes renders data as space separated upper case pairs
func HexBytes(data []byte) string {
	return fmt.Sprintf("% X", data)
}

// PrintableASCII replaces everything outside 0x20..0x7e with '.' so no
// control sequence reaches the terminal
func PrintableASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
