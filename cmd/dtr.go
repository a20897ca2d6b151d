/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// dtrCmd represents the dtr command
var dtrCmd = &cobra.Command{
	Use:   "dtr <port> <state>",
	Short: "Control DTR (Data Terminal Ready) signal",
	Long: `Manually set the DTR (Data Terminal Ready) signal state.

The DTR signal indicates that the terminal is ready for communication.

Examples:
  serialite dtr /dev/ttyUSB0 high
  serialite dtr /dev/ttyUSB0 low

Valid states: high, low, on, off, true, false, 1, 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModemLine(cmd, args[0], args[1], "DTR", serial.Port.SetDTR,
			func(s serial.ModemSignals) bool { return s.DTR })
	},
}

func init() {
	rootCmd.AddCommand(dtrCmd)
	addLineFlags(dtrCmd)
}
