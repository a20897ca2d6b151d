/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// rtsCmd represents the rts command
var rtsCmd = &cobra.Command{
	Use:   "rts <port> <state>",
	Short: "Control RTS (Request To Send) signal",
	Long: `Manually set the RTS (Request To Send) signal state.

With RTS/CTS handshake enabled the driver owns RTS, so pass
--flow-control none (or autorts=off) to drive it by hand.

Examples:
  serialite rts /dev/ttyUSB0 high --flow-control none
  serialite rts /dev/ttyUSB0 off -o "autorts=off"

Valid states: high, low, on, off, true, false, 1, 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModemLine(cmd, args[0], args[1], "RTS", serial.Port.SetRTS,
			func(s serial.ModemSignals) bool { return s.RTS })
	},
}

func parseSignalState(state string) (bool, error) {
	switch strings.ToLower(state) {
	case "high", "on", "true", "1":
		return true, nil
	case "low", "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state: %s (valid: high, low, on, off, true, false, 1, 0)", state)
	}
}

// setModemLine drives one output line and reports the state read back
func setModemLine(cmd *cobra.Command, portPath, stateArg, name string,
	set func(serial.Port, bool) error, get func(serial.ModemSignals) bool) error {
	state, err := parseSignalState(stateArg)
	if err != nil {
		return err
	}

	port, err := openPort(cmd, portPath)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := set(port, state); err != nil {
		return err
	}

	// Verify the state was set
	signals, err := port.GetModemSignals()
	if err != nil {
		fmt.Printf("%s set to %s on %s (not verified: %v)\n", name, formatSignalState(state), portPath, err)
		return nil
	}

	fmt.Printf("%s set to %s on %s\n", name, formatSignalState(get(signals)), portPath)
	return nil
}

func init() {
	rootCmd.AddCommand(rtsCmd)
	addLineFlags(rtsCmd)
}
