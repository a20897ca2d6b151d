package serial

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if o.BaudRate != 57600 {
		t.Errorf("Expected BaudRate 57600, got %d", o.BaudRate)
	}
	if o.BitsPerChar != 8 {
		t.Errorf("Expected BitsPerChar 8, got %d", o.BitsPerChar)
	}
	if o.StopBits != 1 {
		t.Errorf("Expected StopBits 1, got %d", o.StopBits)
	}
	if o.Parity != ParityNone {
		t.Errorf("Expected Parity none, got %v", o.Parity)
	}
	if !o.Blocking || !o.AutoRTS || !o.AutoCTS {
		t.Errorf("Expected blocking, autorts and autocts on, got %+v", o)
	}
	if o.FlowControl() != FlowControlRTSCTS {
		t.Errorf("Expected RTS/CTS flow control by default, got %v", o.FlowControl())
	}
}

func TestParseOptions(t *testing.T) {
	def := DefaultOptions()

	tests := []struct {
		name  string
		input string
		want  func() Options
	}{
		{
			name:  "empty string keeps defaults",
			input: "",
			want:  func() Options { return def },
		},
		{
			name:  "baudrate, parity and stopbits",
			input: "baudrate=9600;parity=E;stopbits=2",
			want: func() Options {
				o := def
				o.BaudRate = 9600
				o.Parity = ParityEven
				o.StopBits = 2
				return o
			},
		},
		{
			name:  "unknown key is ignored",
			input: "foo=bar;baudrate=19200",
			want: func() Options {
				o := def
				o.BaudRate = 19200
				return o
			},
		},
		{
			name:  "empty key stops parsing but keeps earlier entries",
			input: "baudrate=9600;=bad;stopbits=2",
			want: func() Options {
				o := def
				o.BaudRate = 9600
				return o
			},
		},
		{
			name:  "missing equals stops parsing",
			input: "bitsperchar=7;parity;stopbits=2",
			want: func() Options {
				o := def
				o.BitsPerChar = 7
				return o
			},
		},
		{
			name:  "trailing separator",
			input: "baudrate=115200;",
			want: func() Options {
				o := def
				o.BaudRate = 115200
				return o
			},
		},
		{
			name:  "leading whitespace before key and value",
			input: "  baudrate=  4800; \tparity= odd",
			want: func() Options {
				o := def
				o.BaudRate = 4800
				o.Parity = ParityOdd
				return o
			},
		},
		{
			name:  "baudrate must match exactly",
			input: "baudrates=9600",
			want:  func() Options { return def },
		},
		{
			name:  "other keys match by prefix",
			input: "bitspercharacter=7;stopbitsX=2;parityMode=n",
			want: func() Options {
				o := def
				o.BitsPerChar = 7
				o.StopBits = 2
				return o
			},
		},
		{
			name:  "keys are case sensitive",
			input: "BaudRate=9600",
			want:  func() Options { return def },
		},
		{
			name:  "non numeric value parses to zero",
			input: "baudrate=fast",
			want: func() Options {
				o := def
				o.BaudRate = 0
				return o
			},
		},
		{
			name:  "numeric prefix is kept",
			input: "baudrate=9600bps",
			want: func() Options {
				o := def
				o.BaudRate = 9600
				return o
			},
		},
		{
			name:  "unsupported parity is carried to configuration",
			input: "parity=mark",
			want: func() Options {
				o := def
				o.Parity = parityUnsupported
				return o
			},
		},
		{
			name:  "booleans need on",
			input: "blocking=off;autocts=yes;autorts=on",
			want: func() Options {
				o := def
				o.Blocking = false
				o.AutoCTS = false
				o.AutoRTS = true
				return o
			},
		},
		{
			name:  "on prefix counts as on",
			input: "autocts=only",
			want:  func() Options { return def },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.input)
			if got != tt.want() {
				t.Errorf("ParseOptions(%q) = %+v, want %+v", tt.input, got, tt.want())
			}
		})
	}
}

func TestParseParity(t *testing.T) {
	tests := []struct {
		value string
		want  Parity
	}{
		{"none", ParityNone},
		{"N", ParityNone},
		{"odd", ParityOdd},
		{"O", ParityOdd},
		{"even", ParityEven},
		{"e", ParityEven},
		{"", parityUnsupported},
		{"space", parityUnsupported},
		{" n", parityUnsupported},
	}

	for _, tt := range tests {
		if got := parseParity(tt.value); got != tt.want {
			t.Errorf("parseParity(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestAtoi(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"9600", 9600},
		{"  42", 42},
		{"+7", 7},
		{"-2", -2},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		if got := atoi(tt.input); got != tt.want {
			t.Errorf("atoi(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFunctionalOptionsOverrideString(t *testing.T) {
	o := ParseOptions("baudrate=9600;bitsperchar=7",
		WithBaudRate(115200),
		WithStopBits(2),
		WithParity(ParityOdd),
		WithHardwareFlowControl(false),
	)

	if o.BaudRate != 115200 {
		t.Errorf("Expected BaudRate 115200, got %d", o.BaudRate)
	}
	if o.BitsPerChar != 7 {
		t.Errorf("Expected BitsPerChar 7 from the string, got %d", o.BitsPerChar)
	}
	if o.StopBits != 2 {
		t.Errorf("Expected StopBits 2, got %d", o.StopBits)
	}
	if o.Parity != ParityOdd {
		t.Errorf("Expected Parity odd, got %v", o.Parity)
	}
	if o.FlowControl() != FlowControlNone {
		t.Errorf("Expected flow control disabled, got %v", o.FlowControl())
	}

	o = ParseOptions("", WithBitsPerChar(7))
	if o.BitsPerChar != 7 {
		t.Errorf("Expected BitsPerChar 7, got %d", o.BitsPerChar)
	}
}

func TestFlowControlRequiresBothFlags(t *testing.T) {
	tests := []struct {
		rts, cts bool
		want     FlowControl
	}{
		{true, true, FlowControlRTSCTS},
		{true, false, FlowControlNone},
		{false, true, FlowControlNone},
		{false, false, FlowControlNone},
	}

	for _, tt := range tests {
		o := DefaultOptions()
		o.AutoRTS = tt.rts
		o.AutoCTS = tt.cts
		if got := o.FlowControl(); got != tt.want {
			t.Errorf("FlowControl() with autorts=%v autocts=%v = %v, want %v", tt.rts, tt.cts, got, tt.want)
		}
	}
}

func TestOptionsStringParsesBack(t *testing.T) {
	inputs := []string{
		"",
		"baudrate=9600;parity=E;stopbits=2",
		"bitsperchar=7;parity=odd;autorts=off;blocking=off",
		"parity=x",
	}

	for _, in := range inputs {
		o := ParseOptions(in)
		s := o.String()
		if back := ParseOptions(s); back != o {
			t.Errorf("ParseOptions(%q) = %+v, want %+v (from %q)", s, back, o, in)
		}
	}
}
