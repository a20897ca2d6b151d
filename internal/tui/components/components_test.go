package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mbedsys/serialite"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestPrintableASCII(t *testing.T) {
	assert.Equal(t, "AT..", PrintableASCII([]byte("AT\r\n")))
	assert.Equal(t, ".[2J~", PrintableASCII([]byte("\x1b[2J~")))
	assert.Equal(t, "", PrintableASCII(nil))
}

func TestHexBytes(t *testing.T) {
	assert.Equal(t, "DE AD 01", HexBytes([]byte{0xde, 0xad, 0x01}))
}

func TestFormatMessage(t *testing.T) {
	msg := DataReceivedMsg{
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		Data:      []byte("OK\r"),
	}

	df := NewDataFormatter(DisplayMode{ShowHex: true, ShowASCII: true, ShowTimestamps: true})
	line := df.FormatMessage(msg)
	assert.Contains(t, line, "03:04:05.006")
	assert.Contains(t, line, "HEX: 4F 4B 0D")
	assert.Contains(t, line, "ASCII: OK.")

	df.ToggleTimestamps()
	df.ToggleHex()
	line = df.FormatMessage(msg)
	assert.NotContains(t, line, "03:04:05")
	assert.NotContains(t, line, "HEX:")

	df.ToggleASCII()
	assert.Contains(t, df.FormatMessage(msg), "BYTES: 3")
}

func TestTerminalRefresh(t *testing.T) {
	term := NewTerminal(80, 10, DisplayMode{ShowHex: true})
	msgs := []DataReceivedMsg{{Data: []byte{0x01}}, {Data: []byte{0x02}}}
	for _, m := range msgs {
		term.AddMessage(m)
	}
	assert.Len(t, term.Lines(), 2)

	term.ToggleASCII()
	term.Refresh(msgs)
	assert.Contains(t, term.Lines()[1], "ASCII: .")

	term.Clear()
	assert.Empty(t, term.Lines())
}

func TestSettingsSummary(t *testing.T) {
	assert.Equal(t, "57600 8N1 RTS/CTS", SettingsSummary(serial.DefaultOptions()))

	o := serial.ParseOptions("baudrate=9600;bitsperchar=7;parity=even;stopbits=2;autorts=off")
	assert.Equal(t, "9600 7E2 none", SettingsSummary(o))
}

func TestStatusBarView(t *testing.T) {
	sb := NewStatusBar("LISTEN", "/dev/ttyUSB0")
	sb.SetWidth(200)
	sb.SetSettings(serial.DefaultOptions())
	sb.SetConnected()
	sb.SetRXBytes(42)

	view := sb.View("12:00:00")
	assert.Contains(t, view, "LISTEN")
	assert.Contains(t, view, "/dev/ttyUSB0")
	assert.Contains(t, view, "57600 8N1 RTS/CTS")
	assert.Contains(t, view, "RX 42")
	assert.Contains(t, view, "12:00:00")

	sb.SetDisconnected(errors.New("input/output error"))
	assert.EqualError(t, sb.Err(), "input/output error")
	assert.Contains(t, sb.View("12:00:01"), "input/output error")
}

func TestPortSettings(t *testing.T) {
	var tio unix.Termios
	tio.Cflag = unix.CRTSCTS
	tio.Cc[unix.VMIN] = 1

	settings := PortSettings("/dev/ttyS0", serial.DefaultOptions(), tio, 7)
	values := map[string]string{}
	for _, s := range settings {
		values[s.Name] = s.Value
	}

	assert.Equal(t, "/dev/ttyS0", values["Device"])
	assert.Equal(t, "57600", values["Baud rate"])
	assert.Equal(t, "none", values["Parity"])
	assert.Equal(t, "RTS/CTS", values["Flow control"])
	assert.Equal(t, "on", values["CRTSCTS"])
	assert.Equal(t, "off", values["Canonical mode"])
	assert.Equal(t, "1", values["VMIN"])
	assert.Equal(t, "7", values["Bytes queued"])
}

func TestFlowControlLabel(t *testing.T) {
	o := serial.ParseOptions("autocts=off")
	assert.Equal(t, "none (autorts=on, autocts=off)", FlowControlLabel(o))
}

func TestSettingsTableView(t *testing.T) {
	view := NewSettingsTable([]Setting{
		{"Device", "/dev/ttyACM0"},
		{"Baud rate", "115200"},
	}).View()

	assert.Contains(t, view, "Setting")
	assert.Contains(t, view, "/dev/ttyACM0")
	assert.Contains(t, view, "115200")
	assert.Equal(t, 1, strings.Count(view, "Baud rate"))
}
