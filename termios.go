package serial

import (
	"sort"

	"golang.org/x/sys/unix"
)

// baudRates is the allow-list of supported line speeds
var baudRates = map[int]uint32{
	1200:    unix.B1200,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// SupportedBaudRates returns the accepted baud rates in ascending order
func SupportedBaudRates() []int {
	rates := make([]int, 0, len(baudRates))
	for rate := range baudRates {
		rates = append(rates, rate)
	}
	sort.Ints(rates)
	return rates
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	speed, ok := baudRates[rate]
	if !ok {
		return 0, ErrUnsupportedBaudRate
	}
	return speed, nil
}

// makeRaw mirrors cfmakeraw: no input, output or line processing, 8 bits
func makeRaw(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}

// applyOptions programs t from o. It touches nothing but the struct, so the
// caller decides when the settings reach the device.
func applyOptions(t *unix.Termios, o Options, d *diagnostics) error {
	makeRaw(t)
	t.Cflag |= unix.CLOCAL | unix.CREAD

	d.debug().Int("baudrate", o.BaudRate).Msg("set baudrate")
	speed, err := getBaudRate(o.BaudRate)
	if err != nil {
		return err
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= speed
	t.Ispeed = speed
	t.Ospeed = speed

	d.debug().Int("bitsperchar", o.BitsPerChar).Msg("set bitsperchar")
	switch o.BitsPerChar {
	case 7:
		t.Cflag &^= unix.CSIZE
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag &^= unix.CSIZE
		t.Cflag |= unix.CS8
	default:
		return ErrUnsupportedDataSize
	}

	d.debug().Stringer("parity", o.Parity).Msg("set parity")
	switch o.Parity {
	case ParityNone:
		t.Cflag &^= unix.PARENB
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
		t.Cflag &^= unix.PARODD
	default:
		return ErrUnsupportedParity
	}

	d.debug().Int("stopbits", o.StopBits).Msg("set stopbits")
	switch o.StopBits {
	case 1:
		t.Cflag &^= unix.CSTOPB
	case 2:
		t.Cflag |= unix.CSTOPB
	default:
		return ErrUnsupportedStopBits
	}

	if !o.Blocking {
		d.warn().Msg("blocking=off not supported yet")
	}

	// Block until at least one byte arrives, no inter-byte timeout
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if o.FlowControl() == FlowControlRTSCTS {
		d.debug().Msg("RTS/CTS enabled")
		t.Cflag |= unix.CRTSCTS
	} else {
		d.debug().Msg("RTS/CTS disabled")
		t.Cflag &^= unix.CRTSCTS
	}
	t.Cflag |= unix.CLOCAL | unix.CREAD
	t.Iflag &^= unix.IXON | unix.IXOFF | unix.IXANY

	return nil
}
