package serial

import (
	"os"

	"github.com/rs/zerolog"
)

// Version is reported when debug tracing is enabled
const Version = "1.1.0"

// diagnostics gates verbose tracing for one port. It never influences
// control flow.
type diagnostics struct {
	log     zerolog.Logger
	enabled bool
}

func newDiagnostics(logger *zerolog.Logger, debug bool) *diagnostics {
	var l zerolog.Logger
	if logger != nil {
		l = *logger
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
			With().Timestamp().Str("component", "serial").Logger()
	}
	if debug {
		l = l.Level(zerolog.DebugLevel)
	} else {
		l = l.Level(zerolog.WarnLevel)
	}
	return &diagnostics{log: l, enabled: debug}
}

func (d *diagnostics) debug() *zerolog.Event {
	return d.log.Debug()
}

func (d *diagnostics) warn() *zerolog.Event {
	return d.log.Warn()
}

// payload traces a buffer touched by a bulk transfer. Hex encoding is only
// paid for when tracing is on.
func (d *diagnostics) payload(msg string, data []byte) {
	if !d.enabled {
		return
	}
	d.log.Debug().Int("bytes", len(data)).Hex("data", data).Msg(msg)
}

func (d *diagnostics) failure(msg string, err error) {
	d.log.Debug().Err(err).Msg(msg)
}
