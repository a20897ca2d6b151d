/*
Copyright © 2025 The serialite Authors
*/
package cmd

import (
	"io"

	"github.com/mbedsys/serialite"
)

// readChunk blocks for at least one byte, then drains whatever else is
// already queued in the driver, up to len(buf)
func readChunk(port serial.Port, buf []byte) (int, error) {
	queued, err := port.Available()
	if err != nil {
		return 0, err
	}

	if queued == 0 {
		b, err := port.ReadByte()
		if err != nil {
			return 0, err
		}
		buf[0] = b
		return 1, nil
	}

	n, err := port.ReadInto(buf, 0, min(queued, len(buf)))
	if err == nil && n == 0 {
		return 0, io.EOF
	}
	return n, err
}
