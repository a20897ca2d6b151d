package serial

import "golang.org/x/sys/unix"

// ModemSignals represents modem control signal states
type ModemSignals struct {
	CTS bool // Clear To Send
	DSR bool // Data Set Ready
	RI  bool // Ring Indicator
	DCD bool // Data Carrier Detect
	RTS bool // Request To Send
	DTR bool // Data Terminal Ready
}

// modemSignalsFromStatus decodes a TIOCMGET bitmask
func modemSignalsFromStatus(status int) ModemSignals {
	return ModemSignals{
		CTS: status&unix.TIOCM_CTS != 0,
		DSR: status&unix.TIOCM_DSR != 0,
		RI:  status&unix.TIOCM_RI != 0,
		DCD: status&unix.TIOCM_CAR != 0,
		RTS: status&unix.TIOCM_RTS != 0,
		DTR: status&unix.TIOCM_DTR != 0,
	}
}

// modemControlRequest picks TIOCMBIS to raise a line and TIOCMBIC to drop it
func modemControlRequest(state bool) uint {
	if state {
		return unix.TIOCMBIS
	}
	return unix.TIOCMBIC
}

// GetModemSignals returns current state of all modem control signals
func (p *port) GetModemSignals() (ModemSignals, error) {
	if p.closed {
		return ModemSignals{}, p.fail("get modem signals", "modem signals failure", ErrPortClosed)
	}
	status, err := unix.IoctlGetInt(p.fd, unix.TIOCMGET)
	if err != nil {
		return ModemSignals{}, p.fail("get modem signals", "modem signals failure", err)
	}
	return modemSignalsFromStatus(status), nil
}

// SetRTS manually sets the RTS signal state. With RTS/CTS handshake
// enabled the driver may override it.
func (p *port) SetRTS(state bool) error {
	if p.closed {
		return p.fail("set RTS", "set RTS failure", ErrPortClosed)
	}
	if err := unix.IoctlSetPointerInt(p.fd, modemControlRequest(state), unix.TIOCM_RTS); err != nil {
		return p.fail("set RTS", "set RTS failure", err)
	}
	p.diag.debug().Bool("rts", state).Msg("set RTS")
	return nil
}

// SetDTR sets DTR signal state
func (p *port) SetDTR(state bool) error {
	if p.closed {
		return p.fail("set DTR", "set DTR failure", ErrPortClosed)
	}
	if err := unix.IoctlSetPointerInt(p.fd, modemControlRequest(state), unix.TIOCM_DTR); err != nil {
		return p.fail("set DTR", "set DTR failure", err)
	}
	p.diag.debug().Bool("dtr", state).Msg("set DTR")
	return nil
}
