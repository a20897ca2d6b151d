/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mbedsys/serialite"
	"github.com/spf13/cobra"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <port>",
	Short: "Read data from a serial port",
	Long: `Read data from a serial port and write it to stdout.

With --count the command blocks until exactly that many bytes have arrived
(or the device reports end of stream). Without it, data is streamed until
end of stream or Ctrl+C.

Example usage:
  serialite read /dev/ttyUSB0 --count 16 --hex
  serialite read /dev/ttyUSB0 -o "baudrate=9600;parity=even" > dump.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		hexMode, _ := cmd.Flags().GetBool("hex")
		if count < 0 {
			return fmt.Errorf("count must not be negative, got %d", count)
		}

		port, err := openPort(cmd, args[0])
		if err != nil {
			return err
		}
		defer port.Close()

		var out io.Writer = os.Stdout
		if hexMode {
			dumper := hex.Dumper(os.Stdout)
			defer dumper.Close()
			out = dumper
		}

		if count > 0 {
			return readCount(port, out, count)
		}
		return readStream(port, out)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	addLineFlags(readCmd)
	readCmd.Flags().IntP("count", "n", 0, "Number of bytes to read, 0 streams until end of stream")
	readCmd.Flags().BoolP("hex", "x", false, "Print a hex dump instead of raw bytes")
}

// readCount fills a buffer of count bytes with a single ReadInto
func readCount(port serial.Port, out io.Writer, count int) error {
	buffer := make([]byte, count)
	n, err := port.ReadInto(buffer, 0, count)
	if _, werr := out.Write(buffer[:n]); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	if n < count {
		fmt.Fprintf(os.Stderr, "end of stream after %d of %d bytes\n", n, count)
	}
	return nil
}

func readStream(port serial.Port, out io.Writer) error {
	buffer := make([]byte, 4096)
	for {
		n, err := readChunk(port, buffer)
		if n > 0 {
			if _, werr := out.Write(buffer[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
