package serial

import (
	"fmt"
	"io"
)

// sysFunc is a single read(2) or write(2) on the remaining part of a buffer
type sysFunc func(p []byte) (int, error)

// readFull keeps reading into p until it is full, a read returns zero bytes,
// or a read fails with anything other than EINTR. An interrupted read is
// retried without counting as progress.
func readFull(read sysFunc, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := read(p[total:])
		if err != nil {
			if IsInterrupted(err) {
				continue
			}
			return total, err
		}
		if n <= 0 {
			break
		}
		total += n
	}
	return total, nil
}

// writeFull is readFull for the write direction. A write that makes no
// progress without an error ends the loop with io.ErrShortWrite.
func writeFull(write sysFunc, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := write(p[total:])
		if err != nil {
			if IsInterrupted(err) {
				continue
			}
			return total, err
		}
		if n <= 0 {
			return total, io.ErrShortWrite
		}
		total += n
	}
	return total, nil
}

// readOne reads a single byte; zero bytes is end of stream
func readOne(read sysFunc) (byte, error) {
	var b [1]byte
	for {
		n, err := read(b[:])
		if err != nil {
			if IsInterrupted(err) {
				continue
			}
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		return b[0], nil
	}
}

// readSome issues one read into p, retrying only EINTR. Zero bytes for a
// non-empty p is end of stream.
func readSome(read sysFunc, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := read(p)
		if err != nil {
			if IsInterrupted(err) {
				continue
			}
			return 0, err
		}
		if n <= 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// window returns buf[off:off+length] or an argument error
func window(op string, buf []byte, off, length int) ([]byte, error) {
	if off < 0 || length < 0 || off > len(buf) || length > len(buf)-off {
		return nil, &Error{
			Kind: KindArgument,
			Op:   op,
			Err:  fmt.Errorf("offset %d and length %d out of range for %d byte buffer", off, length, len(buf)),
		}
	}
	return buf[off : off+length], nil
}
