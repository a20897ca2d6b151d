/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/components"
	"github.com/mbedsys/serialite/internal/tui/keys"
	"github.com/mbedsys/serialite/internal/tui/models"
	"github.com/mbedsys/serialite/internal/tui/styles"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Listen for data on a serial port with real-time display",
	Long: `Listen for incoming data on a serial port with a real-time TUI display.

Features include:
- Real-time data streaming with timestamps
- ASCII and hex display modes
- Connection status and applied line settings in the status bar

Driver diagnostics cannot share the screen with the TUI, so they are
written to --log-file.

Example usage:
  serialite listen /dev/ttyUSB0
  serialite listen /dev/ttyUSB0 --baud 9600
  serialite listen /dev/ttyUSB0 -o "baudrate=115200;autorts=off;autocts=off" --debug`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]

		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		hexOnly, _ := cmd.Flags().GetBool("hex")
		logPath, _ := cmd.Flags().GetString("log-file")

		opts, err := portOptions(cmd)
		if err != nil {
			return err
		}

		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		opts = append(opts, serial.WithLogger(zerolog.New(logFile).With().Timestamp().Str("port", portPath).Logger()))

		mode := components.DisplayMode{
			ShowHex:        true,
			ShowASCII:      !hexOnly,
			ShowTimestamps: !noTimestamps,
		}
		return runListenTUI(portPath, mode, opts...)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	addLineFlags(listenCmd)
	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().Bool("hex", false, "Start with the ASCII column hidden")
	listenCmd.Flags().String("log-file", filepath.Join(os.TempDir(), "serialite-listen.log"), "File receiving driver diagnostics")
}

// portOpenedMsg hands the applied settings to the status bar
type portOpenedMsg struct {
	settings serial.Options
}

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.TerminalKeys
}

func newListenModel(portPath string, mode components.DisplayMode) *listenModel {
	serialModel := models.NewSerialModel(portPath)
	return &listenModel{
		SerialModel: serialModel,
		terminal:    components.NewTerminal(80, 20, mode),
		statusBar:   components.NewStatusBar("LISTEN", serialModel.GetPortPath()),
		help:        help.New(),
		keys:        keys.NewTerminalKeys(),
	}
}

func runListenTUI(portPath string, mode components.DisplayMode, opts ...serial.Option) error {
	m := newListenModel(portPath, mode)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// The reader owns the port; it is released when the process exits
	go func() {
		port, err := serial.Open(portPath, viper.GetString("options"), opts...)
		if err != nil {
			p.Send(models.ConnectionStatusMsg{Connected: false, Error: err})
			return
		}
		p.Send(portOpenedMsg{settings: port.Settings()})
		p.Send(models.ConnectionStatusMsg{Connected: true})
		p.Send(models.ConnectionStatusMsg{Connected: false, Error: pump(port, p.Send)})
	}()

	_, err := p.Run()
	return err
}

// pump forwards chunks until the port fails. End of stream yields nil.
func pump(port serial.Port, send func(tea.Msg)) error {
	defer port.Close()

	buffer := make([]byte, 4096)
	for {
		n, err := readChunk(port, buffer)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buffer[:n])
			send(components.DataReceivedMsg{Timestamp: time.Now(), Data: data})
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *listenModel) Init() tea.Cmd {
	return nil
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Status bar is single line
		m.terminal.SetSize(msg.Width, msg.Height-1)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)

	case portOpenedMsg:
		m.statusBar.SetSettings(msg.settings)

	case models.ConnectionStatusMsg:
		m.HandleStatus(msg)
		if m.IsConnected() && m.GetError() == nil {
			m.statusBar.SetConnected()
		} else {
			m.statusBar.SetDisconnected(m.GetError())
		}

	case components.DataReceivedMsg:
		if !m.IsReady() {
			m.terminal.SetSize(80, 20)
			m.SetReady(true)
		}
		m.AddRawData(msg)
		m.terminal.AddMessage(msg)
		m.statusBar.SetRXBytes(m.RXBytes())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.ClearData()
			m.terminal.Clear()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleHex):
			m.terminal.ToggleHex()
			m.terminal.Refresh(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleASCII):
			m.terminal.ToggleASCII()
			m.terminal.Refresh(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleTimestamps):
			m.terminal.ToggleTimestamps()
			m.terminal.Refresh(m.GetRawData())
		}
	}

	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		_, cmd := m.terminal.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *listenModel) View() string {
	content := "Initializing..."
	switch {
	case !m.IsConnected() && m.GetError() != nil && len(m.GetRawData()) == 0:
		content = styles.ErrorStyle.Render(fmt.Sprintf("%s: %v", m.GetPortPath(), m.GetError()))
	case m.IsReady():
		content = m.terminal.View()
	}

	if m.IsReady() {
		m.statusBar.SetWidth(m.terminal.Width())
	}
	statusBar := m.statusBar.View(time.Now().Format("15:04:05"))

	sections := []string{styles.ContentBorderStyle.Render(content)}
	if m.help.ShowAll {
		sections = append(sections, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	sections = append(sections, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
