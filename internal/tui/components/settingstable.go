package components

import (
	"fmt"
	"strconv"

	"github.com/evertras/bubble-table/table"
	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/styles"
	"golang.org/x/sys/unix"
)

const (
	columnKeySetting = "setting"
	columnKeyValue   = "value"
)

// Setting is one row of the settings view
type Setting struct {
	Name  string
	Value string
}

// PortSettings lists what an open port reports about itself: the parsed
// options, the termios fields they produced and the input queue depth
func PortSettings(path string, o serial.Options, t unix.Termios, available int) []Setting {
	return []Setting{
		{"Device", path},
		{"Baud rate", strconv.Itoa(o.BaudRate)},
		{"Bits per char", strconv.Itoa(o.BitsPerChar)},
		{"Parity", o.Parity.String()},
		{"Stop bits", strconv.Itoa(o.StopBits)},
		{"Flow control", FlowControlLabel(o)},
		{"Blocking", onOff(o.Blocking)},
		{"Canonical mode", onOff(t.Lflag&unix.ICANON != 0)},
		{"Echo", onOff(t.Lflag&unix.ECHO != 0)},
		{"CRTSCTS", onOff(t.Cflag&unix.CRTSCTS != 0)},
		{"VMIN", strconv.Itoa(int(t.Cc[unix.VMIN]))},
		{"VTIME", strconv.Itoa(int(t.Cc[unix.VTIME]))},
		{"Bytes queued", strconv.Itoa(available)},
		{"Option string", o.String()},
	}
}

// FlowControlLabel names the handshake mode
func FlowControlLabel(o serial.Options) string {
	if o.FlowControl() == serial.FlowControlRTSCTS {
		return "RTS/CTS"
	}
	return fmt.Sprintf("none (autorts=%s, autocts=%s)", onOff(o.AutoRTS), onOff(o.AutoCTS))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// NewSettingsTable renders settings as a two column table
func NewSettingsTable(settings []Setting) table.Model {
	nameWidth, valueWidth := len("Setting"), len("Value")
	rows := make([]table.Row, 0, len(settings))
	for _, s := range settings {
		nameWidth = max(nameWidth, len(s.Name))
		valueWidth = max(valueWidth, len(s.Value))
		rows = append(rows, table.NewRow(table.RowData{
			columnKeySetting: s.Name,
			columnKeyValue:   s.Value,
		}))
	}

	columns := []table.Column{
		table.NewColumn(columnKeySetting, "Setting", nameWidth+2),
		table.NewColumn(columnKeyValue, "Value", valueWidth+2),
	}

	return table.New(columns).
		WithRows(rows).
		HeaderStyle(styles.TableHeaderStyle).
		WithBaseStyle(styles.TableBaseStyle).
		BorderRounded()
}
