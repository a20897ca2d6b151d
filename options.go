package serial

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven

	// parityUnsupported holds any parity value that is not n, o or e. It is
	// rejected when the port is configured, not while parsing.
	parityUnsupported Parity = -1
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "unsupported"
	}
}

// parseParity inspects only the first character of the value
func parseParity(val string) Parity {
	if val == "" {
		return parityUnsupported
	}
	switch val[0] {
	case 'n', 'N':
		return ParityNone
	case 'o', 'O':
		return ParityOdd
	case 'e', 'E':
		return ParityEven
	default:
		return parityUnsupported
	}
}

// FlowControl represents the flow control mode
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlRTSCTS
)

func (fc FlowControl) String() string {
	if fc == FlowControlRTSCTS {
		return "RTS/CTS"
	}
	return "None"
}

// Options holds the line configuration parsed from an option string
type Options struct {
	BaudRate    int
	BitsPerChar int
	StopBits    int
	Parity      Parity
	Blocking    bool // Only blocking mode is implemented; false is warned about
	AutoRTS     bool
	AutoCTS     bool

	logger *zerolog.Logger
	debug  bool
}

// DefaultOptions returns 57600 8N1 with RTS/CTS handshake, blocking reads
func DefaultOptions() Options {
	return Options{
		BaudRate:    57600,
		BitsPerChar: 8,
		StopBits:    1,
		Parity:      ParityNone,
		Blocking:    true,
		AutoRTS:     true,
		AutoCTS:     true,
	}
}

// FlowControl reports RTS/CTS only when both AutoRTS and AutoCTS are set
func (o Options) FlowControl() FlowControl {
	if o.AutoRTS && o.AutoCTS {
		return FlowControlRTSCTS
	}
	return FlowControlNone
}

// String renders the options in the key=value;... form accepted by ParseOptions
func (o Options) String() string {
	parity := o.Parity.String()
	if o.Parity == parityUnsupported {
		parity = "?"
	}
	return strings.Join([]string{
		"baudrate=" + strconv.Itoa(o.BaudRate),
		"bitsperchar=" + strconv.Itoa(o.BitsPerChar),
		"stopbits=" + strconv.Itoa(o.StopBits),
		"parity=" + parity,
		"blocking=" + onOff(o.Blocking),
		"autorts=" + onOff(o.AutoRTS),
		"autocts=" + onOff(o.AutoCTS),
	}, ";")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Option is a functional option applied after the option string
type Option func(*Options)

// WithBaudRate overrides the baud rate
func WithBaudRate(rate int) Option {
	return func(o *Options) {
		o.BaudRate = rate
	}
}

// WithBitsPerChar overrides the data size (7 or 8)
func WithBitsPerChar(bits int) Option {
	return func(o *Options) {
		o.BitsPerChar = bits
	}
}

// WithStopBits overrides the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(o *Options) {
		o.StopBits = bits
	}
}

// WithParity overrides the parity mode
func WithParity(p Parity) Option {
	return func(o *Options) {
		o.Parity = p
	}
}

// WithHardwareFlowControl sets AutoRTS and AutoCTS together
func WithHardwareFlowControl(enabled bool) Option {
	return func(o *Options) {
		o.AutoRTS = enabled
		o.AutoCTS = enabled
	}
}

// WithLogger routes diagnostics to the given logger instead of stderr
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = &l
	}
}

// WithDebug enables verbose tracing of options, payloads and errors
func WithDebug(enabled bool) Option {
	return func(o *Options) {
		o.debug = enabled
	}
}

// ParseOptions turns "key1=val1;key2=val2" into Options. Parsing never fails:
// unknown keys are ignored, and an entry with an empty key or no '=' ends
// parsing while keeping the entries already applied.
func ParseOptions(s string, opts ...Option) Options {
	o := DefaultOptions()
	// functional options may carry the logger, so apply them once up front
	for _, opt := range opts {
		opt(&o)
	}
	d := newDiagnostics(o.logger, o.debug)
	parseInto(&o, s, d)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func parseInto(o *Options, s string, d *diagnostics) {
	if s == "" {
		return
	}
	d.debug().Str("options", s).Msg("options")
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimLeft(entry, " \t\n\v\f\r")
		key, val, found := strings.Cut(entry, "=")
		if key == "" || !found {
			return
		}
		val = strings.TrimLeft(val, " \t\n\v\f\r")
		d.debug().Str("option", key).Str("value", val).Msg("option")

		switch {
		case key == "baudrate":
			o.BaudRate = atoi(val)
		case strings.HasPrefix(key, "bitsperchar"):
			o.BitsPerChar = atoi(val)
		case strings.HasPrefix(key, "stopbits"):
			o.StopBits = atoi(val)
		case strings.HasPrefix(key, "parity"):
			o.Parity = parseParity(val)
		case strings.HasPrefix(key, "blocking"):
			o.Blocking = strings.HasPrefix(val, "on")
		case strings.HasPrefix(key, "autocts"):
			o.AutoCTS = strings.HasPrefix(val, "on")
		case strings.HasPrefix(key, "autorts"):
			o.AutoRTS = strings.HasPrefix(val, "on")
		default:
			d.debug().Str("option", key).Msg("unsupported option")
		}
	}
}

// atoi accepts leading whitespace, an optional sign and leading digits; the
// rest is ignored and a value without digits is 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
