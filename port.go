package serial

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// Port represents an open, configured serial device.
//
// A Port has a single owner: calls are blocking and must not be issued
// concurrently from several goroutines.
type Port interface {
	io.ReadWriteCloser
	io.ByteReader
	io.ByteWriter

	ReadInto(buf []byte, off, length int) (int, error)
	WriteFrom(buf []byte, off, length int) (int, error)
	Available() (int, error)
	Flush() error
	FlushInput() error
	FlushOutput() error

	// Applied configuration
	Settings() Options
	Termios() unix.Termios

	// Modem signal control and monitoring
	GetModemSignals() (ModemSignals, error)
	SetRTS(state bool) error
	SetDTR(state bool) error
}

// port is the concrete implementation of the Port interface
type port struct {
	fd      int
	path    string
	options Options
	termios unix.Termios
	closed  bool
	diag    *diagnostics
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

var errEmptyDevice = errors.New("Invalid parameter device name: cannot be empty")

// Open opens device and programs the line settings described by options
// (see ParseOptions). An empty options string selects 57600 8N1 with RTS/CTS.
// Functional options are applied on top of the parsed string.
func Open(device, options string, opts ...Option) (Port, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := newDiagnostics(o.logger, o.debug)
	d.debug().Str("version", Version).Msg("debug enabled")

	if device == "" {
		err := &Error{Kind: KindArgument, Op: "open", Err: errEmptyDevice}
		d.failure("open failure", err)
		return nil, err
	}
	d.debug().Str("device", device).Msg("open device")

	parseInto(&o, options, d)
	for _, opt := range opts {
		opt(&o)
	}

	// O_NDELAY keeps open from waiting on carrier detect
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NDELAY, 0)
	if err != nil {
		err = openError(device, err)
		d.failure("open failure", err)
		return nil, err
	}

	t, err := configurePort(fd, o, d)
	if err != nil {
		unix.Close(fd)
		err = openError(device, err)
		d.failure("open failure", err)
		return nil, err
	}

	d.debug().Str("device", device).Str("options", o.String()).Msg("open success")
	return &port{
		fd:      fd,
		path:    device,
		options: o,
		termios: t,
		diag:    d,
	}, nil
}

// configurePort restores blocking reads and commits the line settings
// immediately (TCSETS is tcsetattr with TCSANOW).
func configurePort(fd int, o Options, d *diagnostics) (unix.Termios, error) {
	if err := unix.SetNonblock(fd, false); err != nil {
		return unix.Termios{}, err
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return unix.Termios{}, err
	}

	if err := applyOptions(termios, o, d); err != nil {
		return unix.Termios{}, err
	}

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return unix.Termios{}, err
	}
	return *termios, nil
}

func (p *port) Settings() Options {
	return p.options
}

func (p *port) Termios() unix.Termios {
	return p.termios
}

// Close releases the descriptor. Failures are traced, never returned, and
// closing twice is a no-op.
func (p *port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.diag.debug().Str("device", p.path).Msg("close")
	if err := unix.Close(p.fd); err != nil {
		p.diag.failure("close failure", err)
	}
	p.fd = -1
	return nil
}

func (p *port) fail(op, msg string, err error) error {
	err = ioError(op, err)
	p.diag.failure(msg, err)
	return err
}

// Available returns the number of bytes that can be read without blocking
func (p *port) Available() (int, error) {
	if p.closed {
		return 0, p.fail("get available", "get available failure", ErrPortClosed)
	}
	n, err := unix.IoctlGetInt(p.fd, unix.TIOCINQ)
	if err != nil {
		return 0, p.fail("get available", "get available failure", err)
	}
	p.diag.debug().Int("available", n).Msg("available")
	return n, nil
}

func (p *port) sysRead(b []byte) (int, error) {
	return unix.Read(p.fd, b)
}

func (p *port) sysWrite(b []byte) (int, error) {
	return unix.Write(p.fd, b)
}

// ReadByte blocks until one byte arrives. io.EOF is returned when the
// device reports end of stream.
func (p *port) ReadByte() (byte, error) {
	if p.closed {
		return 0, p.fail("read", "read byte failure", ErrPortClosed)
	}
	b, err := readOne(p.sysRead)
	if err == io.EOF {
		p.diag.debug().Msg("read byte: end of stream")
		return 0, io.EOF
	}
	if err != nil {
		return 0, p.fail("read", "read byte failure", err)
	}
	p.diag.debug().Hex("byte", []byte{b}).Msg("read byte")
	return b, nil
}

// ReadInto fills buf[off:off+length], issuing as many reads as needed. It
// returns early, without error, when a read delivers no data.
func (p *port) ReadInto(buf []byte, off, length int) (int, error) {
	w, err := window("read", buf, off, length)
	if err != nil {
		return 0, err
	}
	if p.closed {
		return 0, p.fail("read", "read byte array failure", ErrPortClosed)
	}
	n, err := readFull(p.sysRead, w)
	if err != nil {
		return n, p.fail("read", "read byte array failure", err)
	}
	p.diag.payload("read byte array", w[:n])
	return n, nil
}

// Read implements io.Reader: it blocks for the first byte and returns
// whatever a single read delivers, without waiting for p to fill.
func (p *port) Read(b []byte) (int, error) {
	if p.closed {
		return 0, p.fail("read", "read failure", ErrPortClosed)
	}
	n, err := readSome(p.sysRead, b)
	if err == io.EOF {
		p.diag.debug().Msg("read: end of stream")
		return 0, io.EOF
	}
	if err != nil {
		return 0, p.fail("read", "read failure", err)
	}
	p.diag.payload("read", b[:n])
	return n, nil
}

// WriteByte writes exactly one byte
func (p *port) WriteByte(c byte) error {
	if p.closed {
		return p.fail("write", "write byte failure", ErrPortClosed)
	}
	if _, err := writeFull(p.sysWrite, []byte{c}); err != nil {
		return p.fail("write", "write byte failure", err)
	}
	p.diag.debug().Hex("byte", []byte{c}).Msg("write byte")
	return nil
}

// WriteFrom writes all of buf[off:off+length], retrying partial and
// interrupted writes
func (p *port) WriteFrom(buf []byte, off, length int) (int, error) {
	w, err := window("write", buf, off, length)
	if err != nil {
		return 0, err
	}
	if p.closed {
		return 0, p.fail("write", "write byte array failure", ErrPortClosed)
	}
	n, err := writeFull(p.sysWrite, w)
	if err != nil {
		return n, p.fail("write", "write byte array failure", err)
	}
	p.diag.payload("write byte array", w)
	return n, nil
}

// Write implements io.Writer on top of WriteFrom
func (p *port) Write(b []byte) (int, error) {
	return p.WriteFrom(b, 0, len(b))
}

// Flush waits until all output written to the port has been transmitted
func (p *port) Flush() error {
	if p.closed {
		return p.fail("flush", "flush failure", ErrPortClosed)
	}
	// TCSBRK with a non-zero argument is tcdrain
	if err := unix.IoctlSetInt(p.fd, unix.TCSBRK, 1); err != nil {
		return p.fail("flush", "flush failure", err)
	}
	p.diag.debug().Msg("flush")
	return nil
}

// FlushInput discards any unread input data
func (p *port) FlushInput() error {
	if p.closed {
		return p.fail("flush input", "flush input failure", ErrPortClosed)
	}
	if err := unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return p.fail("flush input", "flush input failure", err)
	}
	return nil
}

// FlushOutput discards any unwritten output data
func (p *port) FlushOutput() error {
	if p.closed {
		return p.fail("flush output", "flush output failure", ErrPortClosed)
	}
	if err := unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCOFLUSH); err != nil {
		return p.fail("flush output", "flush output failure", err)
	}
	return nil
}
