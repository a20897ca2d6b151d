/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads data from the specified serial port and writes it directly to the
output file. Runs until the device reports end of stream or the command is
interrupted (Ctrl+C).

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  serialite capture /dev/ttyUSB0 data.log
  serialite capture /dev/ttyUSB0 output.txt --baud 9600
  serialite capture /dev/ttyUSB0 capture.log --console -o "autorts=off;autocts=off"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]
		outputPath := args[1]

		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")
		if bufferSize <= 0 {
			return fmt.Errorf("buffer size must be positive, got %d", bufferSize)
		}

		port, err := openPort(cmd, portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		var console io.Writer
		if showConsole {
			console = os.Stdout
		}
		return runCapture(port, file, console, portPath, outputPath, bufferSize)
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	addLineFlags(captureCmd)
	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

func runCapture(port serial.Port, file *os.File, console io.Writer, portPath, outputPath string, bufferSize int) error {
	var bytesWritten atomic.Int64
	startTime := time.Now()

	summary := func() {
		duration := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", bytesWritten.Load(), duration.Round(time.Millisecond))
	}

	// Reads block in the kernel, so an interrupt ends the process
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)

	go onInterrupt(sigChan, done, func() {
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down...\n")
		file.Sync()
		summary()
		os.Exit(0)
	})

	fmt.Fprintf(os.Stderr, "Capturing data from %s (%s) to %s\n", portPath, port.Settings(), outputPath)
	if console != nil {
		fmt.Fprintf(os.Stderr, "Console display enabled\n")
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	buffer := make([]byte, bufferSize)
	for {
		n, err := readChunk(port, buffer)
		if n > 0 {
			written, werr := file.Write(buffer[:n])
			bytesWritten.Add(int64(written))
			if werr != nil {
				return fmt.Errorf("write error: %w", werr)
			}
			if console != nil {
				console.Write(buffer[:n])
			}
		}
		if errors.Is(err, io.EOF) {
			summary()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
	}
}

// onInterrupt runs handle if a signal arrives before done is closed
func onInterrupt(sigChan <-chan os.Signal, done <-chan struct{}, handle func()) {
	select {
	case <-sigChan:
		handle()
	case <-done:
	}
}
