package serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Kind classifies a failure reported to the caller
type Kind int

const (
	KindIO            Kind = iota // Device open, read, write, available or flush failure
	KindArgument                  // Bad or missing device path, bad buffer bounds
	KindConfiguration             // Line setting rejected before reaching the device
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument"
	case KindConfiguration:
		return "configuration"
	default:
		return "io"
	}
}

// Predefined error types for robust error handling
var (
	ErrIO            = errors.New("serial I/O error")
	ErrArgument      = errors.New("invalid argument")
	ErrConfiguration = errors.New("unsupported serial configuration")
	ErrPortClosed    = errors.New("serial port is closed")

	// Configuration reasons, reported as the <reason> part of an open failure
	ErrUnsupportedBaudRate = errors.New("Unsupported baud rate")
	ErrUnsupportedDataSize = errors.New("Unsupported data size")
	ErrUnsupportedParity   = errors.New("Unsupported parity")
	ErrUnsupportedStopBits = errors.New("Unsupported stop bits")
)

// Error is returned by every Port operation that fails.
//
// The message reads "Fail to <op> <path>: <cause>"; the path is only present
// for open failures.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := "Fail to " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels (ErrIO, ErrArgument, ErrConfiguration).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrArgument:
		return e.Kind == KindArgument
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	}
	return false
}

func ioError(op string, err error) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func openError(path string, err error) error {
	kind := KindIO
	if isConfigurationReason(err) {
		kind = KindConfiguration
	}
	return &Error{Kind: kind, Op: "open", Path: path, Err: err}
}

func isConfigurationReason(err error) bool {
	return errors.Is(err, ErrUnsupportedBaudRate) ||
		errors.Is(err, ErrUnsupportedDataSize) ||
		errors.Is(err, ErrUnsupportedParity) ||
		errors.Is(err, ErrUnsupportedStopBits)
}

// IsInterrupted reports whether err is an interrupted system call
func IsInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// KindOf returns the Kind of err, or false if err did not come from this package
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
