// Package serial configures and drives a POSIX serial (UART) device with
// blocking, byte-oriented I/O.
//
// A port is opened from a device path and a semicolon-delimited option
// string. Every read, write and drain call blocks the calling goroutine; the
// library starts no goroutines of its own.
//
// # Basic Usage
//
// Open a serial port with default configuration (57600 8N1, RTS/CTS handshake):
//
//	port, err := serial.Open("/dev/ttyUSB0", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte("Hello"))
//	err = port.Flush() // wait until transmitted
//
//	buffer := make([]byte, 16)
//	n, err = port.ReadInto(buffer, 0, len(buffer))
//
// # Option String
//
// Options are written as key=value pairs separated by semicolons:
//
//	port, err := serial.Open("/dev/ttyS0", "baudrate=9600;parity=even;stopbits=2;autocts=off")
//
// Recognized keys:
//
//   - baudrate: 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200,
//     1500000, 2000000, 2500000, 3000000, 3500000 or 4000000
//   - bitsperchar: 7 or 8
//   - stopbits: 1 or 2
//   - parity: none, odd or even (only the first letter is inspected)
//   - autorts, autocts: on enables; RTS/CTS handshake needs both
//   - blocking: accepted, but only blocking mode is implemented
//
// Unknown keys are ignored. An entry without a key or without '=' ends
// parsing; entries before it still apply.
//
// Functional options override the string and control diagnostics:
//
//	port, err := serial.Open("/dev/ttyUSB0", "baudrate=115200",
//	    serial.WithHardwareFlowControl(false),
//	    serial.WithDebug(true),
//	)
//
// # Diagnostics
//
// WithDebug traces options, applied line settings, payload hex dumps and
// failures through zerolog to stderr, or to the logger given with
// WithLogger. Tracing never changes behavior.
//
// # Error Handling
//
// Failures are *Error values classified by Kind. Use errors.Is:
//
//	if errors.Is(err, serial.ErrConfiguration) {
//	    // unsupported baud rate, data size, parity or stop bits
//	}
//	if errors.Is(err, serial.ErrUnsupportedBaudRate) {
//	    // the specific reason
//	}
//
// Open failures read "Fail to open <path>: <reason>". Reaching end of
// stream on ReadByte or Read returns io.EOF.
package serial
