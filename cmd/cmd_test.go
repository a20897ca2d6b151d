package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/components"
	"github.com/mbedsys/serialite/internal/tui/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLineCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addLineFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func openTestPort(t *testing.T, cmd *cobra.Command) (*os.File, serial.Port) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := openPort(cmd, slave.Name())
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })
	return master, port
}

func waitQueued(t *testing.T, port serial.Port, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		queued, err := port.Available()
		return err == nil && queued >= n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestParseSignalState(t *testing.T) {
	for _, s := range []string{"high", "ON", "true", "1"} {
		state, err := parseSignalState(s)
		require.NoError(t, err, s)
		assert.True(t, state, s)
	}
	for _, s := range []string{"low", "Off", "false", "0"} {
		state, err := parseSignalState(s)
		require.NoError(t, err, s)
		assert.False(t, state, s)
	}
	_, err := parseSignalState("maybe")
	assert.ErrorContains(t, err, "invalid state: maybe")
}

func TestParseHexString(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"48656c6c6f", []byte("Hello"), false},
		{"de ad be ef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"0x01 0X02", []byte{0x01, 0x02}, false},
		{"abc", nil, true},
		{"zz", nil, true},
	}
	for _, tt := range tests {
		got, err := parseHexString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPreviewData(t *testing.T) {
	assert.Equal(t, "AT·", previewData([]byte("AT\r"), 50))
	assert.Equal(t, "abc...", previewData([]byte("abcdef"), 3))
}

func TestParseSignalMask(t *testing.T) {
	mask, err := parseSignalMask(nil)
	require.NoError(t, err)
	assert.Equal(t, allInputSignals, mask)

	mask, err = parseSignalMask([]string{"CTS", " dcd"})
	require.NoError(t, err)
	assert.Equal(t, signalCTS|signalDCD, mask)

	_, err = parseSignalMask([]string{"rts"})
	assert.ErrorContains(t, err, "unknown signal: rts")
}

func TestChangedSignals(t *testing.T) {
	a := serial.ModemSignals{CTS: true, DSR: false, RTS: true}
	b := serial.ModemSignals{CTS: false, DSR: true, RTS: false}

	assert.Equal(t, signalCTS|signalDSR, changedSignals(a, b, allInputSignals))
	assert.Equal(t, signalDSR, changedSignals(a, b, signalDSR|signalRI))
	assert.Zero(t, changedSignals(a, a, allInputSignals))
}

func TestPortOptionsFlags(t *testing.T) {
	resetViper(t)
	viper.Set("options", "baudrate=9600;parity=even")

	o, err := effectiveOptions(newLineCmd(t, map[string]string{"baud": "115200", "flow-control": "none"}))
	require.NoError(t, err)
	assert.Equal(t, 115200, o.BaudRate)
	assert.Equal(t, serial.ParityEven, o.Parity)
	assert.Equal(t, serial.FlowControlNone, o.FlowControl())

	o, err = effectiveOptions(newLineCmd(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 9600, o.BaudRate)
	assert.Equal(t, serial.FlowControlRTSCTS, o.FlowControl())

	_, err = portOptions(newLineCmd(t, map[string]string{"flow-control": "xonxoff"}))
	assert.ErrorContains(t, err, "invalid flow control")
}

func TestOpenPortUsesConfiguredOptions(t *testing.T) {
	resetViper(t)
	viper.Set("options", "baudrate=19200;autocts=off")

	_, port := openTestPort(t, newLineCmd(t, nil))
	settings := port.Settings()
	assert.Equal(t, 19200, settings.BaudRate)
	assert.Equal(t, serial.FlowControlNone, settings.FlowControl())
}

func TestOpenPortReportsConfigurationError(t *testing.T) {
	resetViper(t)
	viper.Set("options", "baudrate=300")

	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	_, err = openPort(newLineCmd(t, nil), slave.Name())
	assert.ErrorIs(t, err, serial.ErrConfiguration)
}

func TestReadChunkDrainsQueue(t *testing.T) {
	resetViper(t)
	master, port := openTestPort(t, newLineCmd(t, nil))

	_, err := master.Write([]byte("hello"))
	require.NoError(t, err)
	waitQueued(t, port, 5)

	buf := make([]byte, 16)
	n, err := readChunk(port, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestReadChunkLimitedByBuffer(t *testing.T) {
	resetViper(t)
	master, port := openTestPort(t, newLineCmd(t, nil))

	_, err := master.Write([]byte("abcdef"))
	require.NoError(t, err)
	waitQueued(t, port, 6)

	buf := make([]byte, 4)
	n, err := readChunk(port, buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	n, err = readChunk(port, buf)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(buf[:n]))
}

func TestReadCount(t *testing.T) {
	resetViper(t)
	master, port := openTestPort(t, newLineCmd(t, nil))

	_, err := master.Write([]byte{0x00, 0x7f, 0x80, 0xff})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, readCount(port, &out, 4))
	assert.Equal(t, []byte{0x00, 0x7f, 0x80, 0xff}, out.Bytes())
}

func TestSendDataFlushes(t *testing.T) {
	resetViper(t)
	master, port := openTestPort(t, newLineCmd(t, nil))

	require.NoError(t, sendData(port, "pty", []byte("AT\r\n")))

	buf := make([]byte, 4)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "AT\r\n", string(buf[:n]))
}

func TestSupportedBaudRates(t *testing.T) {
	out := supportedBaudRates()
	assert.Contains(t, out, "1200\n")
	assert.Contains(t, out, "\n4000000")
}

func TestOnInterruptReturnsWhenDone(t *testing.T) {
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	close(done)

	called := false
	onInterrupt(sigChan, done, func() { called = true })
	assert.False(t, called)
}

func TestOnInterruptHandlesSignal(t *testing.T) {
	sigChan := make(chan os.Signal, 1)
	sigChan <- syscall.SIGTERM

	called := false
	onInterrupt(sigChan, make(chan struct{}), func() { called = true })
	assert.True(t, called)
}

func TestListenModelShowsOpenFailure(t *testing.T) {
	m := newListenModel("/dev/ttyUSB9", components.DisplayMode{ShowHex: true})
	m.Update(models.ConnectionStatusMsg{Connected: false, Error: errors.New("Fail to open /dev/ttyUSB9: no such file or directory")})

	assert.False(t, m.IsConnected())
	assert.Contains(t, m.View(), "/dev/ttyUSB9: Fail to open /dev/ttyUSB9")
	assert.Equal(t, m.GetError(), m.statusBar.Err())
}

func TestListenModelConnected(t *testing.T) {
	m := newListenModel("/dev/ttyUSB0", components.DisplayMode{ShowHex: true, ShowASCII: true})
	m.Update(models.ConnectionStatusMsg{Connected: true})
	m.Update(components.DataReceivedMsg{Timestamp: time.Now(), Data: []byte("ok")})

	assert.True(t, m.IsConnected())
	assert.NoError(t, m.statusBar.Err())
	assert.Equal(t, 2, m.RXBytes())
	assert.Contains(t, m.View(), "ASCII: ok")
}

func TestCommandSourcesCarryProjectHeader(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	entry, err := filepath.Glob("serialite/*.go")
	require.NoError(t, err)

	for _, name := range append(files, entry...) {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		src, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(src), "/*\nCopyright © 2025 The serialite Authors\n*/\n"), name)
	}
}
