/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// signalMask selects which modem input lines the monitor reports
type signalMask uint8

const (
	signalCTS signalMask = 1 << iota
	signalDSR
	signalRI
	signalDCD
)

const allInputSignals = signalCTS | signalDSR | signalRI | signalDCD

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Monitor modem signal changes",
	Long: `Poll modem control signals and report when they change state.

Runs until interrupted (Ctrl+C), until --changes transitions were seen, or
until --duration has elapsed.

Examples:
  serialite monitor /dev/ttyUSB0
  serialite monitor /dev/ttyUSB0 --signals cts,dsr
  serialite monitor /dev/ttyUSB0 --signals dcd --interval 10ms --duration 30s

Available signals: cts, dsr, ri, dcd`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]

		names, _ := cmd.Flags().GetStringSlice("signals")
		interval, _ := cmd.Flags().GetDuration("interval")
		duration, _ := cmd.Flags().GetDuration("duration")
		maxChanges, _ := cmd.Flags().GetInt("changes")

		mask, err := parseSignalMask(names)
		if err != nil {
			return err
		}
		if interval <= 0 {
			return fmt.Errorf("interval must be positive, got %v", interval)
		}

		port, err := openPort(cmd, portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		fmt.Printf("Monitoring signals on %s (signals: %s)\n", portPath, strings.Join(names, ", "))
		fmt.Println("Press Ctrl+C to stop")

		return monitorSignals(port, mask, interval, duration, maxChanges)
	},
}

func parseSignalMask(signalNames []string) (signalMask, error) {
	if len(signalNames) == 0 {
		return allInputSignals, nil
	}

	var mask signalMask
	for _, name := range signalNames {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cts":
			mask |= signalCTS
		case "dsr":
			mask |= signalDSR
		case "ri":
			mask |= signalRI
		case "dcd":
			mask |= signalDCD
		default:
			return 0, fmt.Errorf("unknown signal: %s (valid: cts, dsr, ri, dcd)", name)
		}
	}
	return mask, nil
}

// changedSignals returns the lines in mask that differ between a and b
func changedSignals(a, b serial.ModemSignals, mask signalMask) signalMask {
	var changed signalMask
	if a.CTS != b.CTS {
		changed |= signalCTS
	}
	if a.DSR != b.DSR {
		changed |= signalDSR
	}
	if a.RI != b.RI {
		changed |= signalRI
	}
	if a.DCD != b.DCD {
		changed |= signalDCD
	}
	return changed & mask
}

func monitorSignals(port serial.Port, mask signalMask, interval, duration time.Duration, maxChanges int) error {
	last, err := port.GetModemSignals()
	if err != nil {
		return err
	}
	printSignals("Initial state", last, mask)

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := 0
	for {
		select {
		case <-deadline:
			fmt.Printf("[%s] Monitor finished after %v, %d changes\n", time.Now().Format("15:04:05"), duration, seen)
			return nil
		case <-ticker.C:
		}

		current, err := port.GetModemSignals()
		if err != nil {
			return err
		}
		changed := changedSignals(last, current, mask)
		last = current
		if changed == 0 {
			continue
		}

		printSignals("Signal change detected", current, changed)
		seen++
		if maxChanges > 0 && seen >= maxChanges {
			return nil
		}
	}
}

func printSignals(prefix string, signals serial.ModemSignals, mask signalMask) {
	fmt.Printf("[%s] %s:\n", time.Now().Format("15:04:05"), prefix)
	if mask&signalCTS != 0 {
		fmt.Printf("  CTS: %s\n", formatSignalState(signals.CTS))
	}
	if mask&signalDSR != 0 {
		fmt.Printf("  DSR: %s\n", formatSignalState(signals.DSR))
	}
	if mask&signalRI != 0 {
		fmt.Printf("  RI:  %s\n", formatSignalState(signals.RI))
	}
	if mask&signalDCD != 0 {
		fmt.Printf("  DCD: %s\n", formatSignalState(signals.DCD))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	addLineFlags(monitorCmd)
	monitorCmd.Flags().StringSliceP("signals", "s", []string{"cts", "dsr", "ri", "dcd"},
		"Signals to monitor (comma-separated: cts,dsr,ri,dcd)")
	monitorCmd.Flags().Duration("interval", 50*time.Millisecond, "Polling interval")
	monitorCmd.Flags().DurationP("duration", "t", 0, "Stop after this long (0 = run until interrupted)")
	monitorCmd.Flags().Int("changes", 0, "Stop after this many changes (0 = unlimited)")
}
