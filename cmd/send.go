/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port and wait until it has been transmitted.

Data can be provided as:
- Command line argument: send "Hello World" /dev/ttyUSB0
- From stdin (pipe): echo "test data" | serialite send /dev/ttyUSB0
- Interactive mode: serialite send /dev/ttyUSB0 (prompts for input)

Example usage:
  serialite send "Hello World" /dev/ttyUSB0
  serialite send "AT+GMR" /dev/ttyUSB0 --newline
  serialite send "de ad be ef" /dev/ttyUSB0 --hex -o "baudrate=115200;autocts=off"
  echo "test" | serialite send /dev/ttyUSB0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data string
		var portPath string

		// Parse arguments: either "send data port" or "send port"
		if len(args) == 1 {
			portPath = args[0]
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				data = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				data = strings.TrimRight(string(stdinData), "\r\n")
			}
		} else {
			data = args[0]
			portPath = args[1]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")

		payload := []byte(data)
		if hexMode {
			decoded, err := parseHexString(data)
			if err != nil {
				return fmt.Errorf("invalid hex data: %w", err)
			}
			payload = decoded
		} else if addNewline {
			payload = append(payload, '\n')
		}

		port, err := openPort(cmd, portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		return sendData(port, portPath, payload)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	addLineFlags(sendCmd)
	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
}

func promptForData() string {
	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	fmt.Print(promptStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// parseHexString accepts "48656c6c6f", "48 65 6c" and "0x48 0x65"
func parseHexString(hexStr string) ([]byte, error) {
	hexStr = strings.ReplaceAll(hexStr, " ", "")
	hexStr = strings.ReplaceAll(hexStr, "0x", "")
	hexStr = strings.ReplaceAll(hexStr, "0X", "")

	if len(hexStr)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length")
	}
	return hex.DecodeString(hexStr)
}

func sendData(port serial.Port, portPath string, payload []byte) error {
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("40")).
		Bold(true)

	fmt.Printf("%s Opened %s (%s)\n", infoStyle.Render("⚡"), portPath, port.Settings())
	fmt.Printf("%s Sending %d bytes...\n", infoStyle.Render("📤"), len(payload))

	n, err := port.Write(payload)
	if err != nil {
		return fmt.Errorf("failed to send data after %d bytes: %w", n, err)
	}
	if err := port.Flush(); err != nil {
		return err
	}

	fmt.Printf("%s Transmitted %d bytes\n", successStyle.Render("✓"), n)
	fmt.Printf("%s Data: %s\n", infoStyle.Render("📋"), previewData(payload, 50))
	return nil
}

// previewData renders at most limit bytes with non-printables replaced
func previewData(data []byte, limit int) string {
	preview := string(data)
	if len(data) > limit {
		preview = string(data[:limit]) + "..."
	}
	return strings.Map(func(r rune) rune {
		if r < 32 || r > 126 {
			return '·'
		}
		return r
	}, preview)
}
