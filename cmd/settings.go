/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/components"
	"github.com/mbedsys/serialite/internal/tui/styles"
	"github.com/spf13/cobra"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings <port>",
	Short: "Apply an option string and show the resulting line settings",
	Long: `Open a port with the given options and print the settings the driver
applied, the termios fields they produced and the number of bytes waiting in
the input queue.

Examples:
  serialite settings /dev/ttyUSB0
  serialite settings /dev/ttyUSB0 -o "baudrate=9600;bitsperchar=7;parity=even;stopbits=2"
  serialite settings --supported`,
	Args: func(cmd *cobra.Command, args []string) error {
		if supported, _ := cmd.Flags().GetBool("supported"); supported {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if supported, _ := cmd.Flags().GetBool("supported"); supported {
			fmt.Println(supportedBaudRates())
			return nil
		}

		portPath := args[0]
		port, err := openPort(cmd, portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		available, err := port.Available()
		if err != nil {
			return err
		}

		settings := components.PortSettings(portPath, port.Settings(), port.Termios(), available)
		fmt.Println(styles.TitleStyle.Render("serialite " + serial.Version))
		fmt.Println(components.NewSettingsTable(settings).View())
		return nil
	},
}

func supportedBaudRates() string {
	rates := serial.SupportedBaudRates()
	parts := make([]string, len(rates))
	for i, rate := range rates {
		parts[i] = strconv.Itoa(rate)
	}
	return strings.Join(parts, "\n")
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	addLineFlags(settingsCmd)
	settingsCmd.Flags().Bool("supported", false, "List the supported baud rates and exit")
}
