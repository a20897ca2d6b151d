/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mbedsys/serialite"
	"github.com/mbedsys/serialite/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialite",
	Short: "Configure and talk to a serial port",
	Long: `serialite opens a serial device with a compact option string and performs
blocking reads, writes and drains on it.

The option string is a semicolon separated list of key=value pairs:

  baudrate=115200;bitsperchar=8;parity=none;stopbits=1;autorts=on;autocts=on

Options can be given with --options, the SERIALITE_OPTIONS environment
variable, or an "options" entry in $HOME/.serialite.yaml.

Example usage:
  serialite send "AT" /dev/ttyUSB0 --newline
  serialite read /dev/ttyUSB0 --count 16 -o "baudrate=9600;parity=even"
  serialite listen /dev/ttyACM0 --debug`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialite.yaml)")
	rootCmd.PersistentFlags().StringP("options", "o", "", "Option string, e.g. \"baudrate=9600;parity=even\"")
	rootCmd.PersistentFlags().Bool("debug", false, "Trace options, payloads and errors to stderr")

	viper.BindPFlag("options", rootCmd.PersistentFlags().Lookup("options"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialite")
	}

	viper.SetEnvPrefix("serialite")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("debug") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// addLineFlags registers the per-command overrides of the option string
func addLineFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("baud", "b", 0, "Baud rate, overrides the option string")
	cmd.Flags().StringP("flow-control", "f", "", "Flow control: none, rtscts (default: from options)")
}

// portOptions builds the functional options for a command from viper and
// the command's line flags
func portOptions(cmd *cobra.Command) ([]serial.Option, error) {
	opts := []serial.Option{serial.WithDebug(viper.GetBool("debug"))}

	if cmd.Flags().Lookup("baud") != nil {
		if baud, _ := cmd.Flags().GetInt("baud"); baud != 0 {
			opts = append(opts, serial.WithBaudRate(baud))
		}
	}

	if cmd.Flags().Lookup("flow-control") != nil {
		flowControl, _ := cmd.Flags().GetString("flow-control")
		switch strings.ToLower(flowControl) {
		case "":
		case "none":
			opts = append(opts, serial.WithHardwareFlowControl(false))
		case "rtscts":
			opts = append(opts, serial.WithHardwareFlowControl(true))
		default:
			return nil, fmt.Errorf("invalid flow control: %s (valid: none, rtscts)", flowControl)
		}
	}

	return opts, nil
}

// openPort opens portPath with the configured option string and overrides
func openPort(cmd *cobra.Command, portPath string) (serial.Port, error) {
	opts, err := portOptions(cmd)
	if err != nil {
		return nil, err
	}
	return serial.Open(portPath, viper.GetString("options"), opts...)
}

// effectiveOptions returns the options a port opened by cmd would use
func effectiveOptions(cmd *cobra.Command) (serial.Options, error) {
	opts, err := portOptions(cmd)
	if err != nil {
		return serial.Options{}, err
	}
	return serial.ParseOptions(viper.GetString("options"), opts...), nil
}
