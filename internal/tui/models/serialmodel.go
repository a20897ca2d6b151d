package models

import (
	"github.com/mbedsys/serialite/internal/tui/components"
)

// ConnectionStatusMsg reports the outcome of opening the port, or the end
// of the read loop
type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// SerialModel holds the state shared by the data views. It is only touched
// from the Bubble Tea update loop.
type SerialModel struct {
	portPath string

	connected bool
	rawData   []components.DataReceivedMsg
	rxBytes   int
	err       error
	ready     bool
}

func NewSerialModel(portPath string) *SerialModel {
	return &SerialModel{portPath: portPath}
}

func (m *SerialModel) GetPortPath() string {
	return m.portPath
}

func (m *SerialModel) IsConnected() bool {
	return m.connected
}

// HandleStatus applies a ConnectionStatusMsg
func (m *SerialModel) HandleStatus(msg ConnectionStatusMsg) {
	m.connected = msg.Connected
	m.err = msg.Error
}

func (m *SerialModel) GetError() error {
	return m.err
}

func (m *SerialModel) IsReady() bool {
	return m.ready
}

func (m *SerialModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *SerialModel) GetRawData() []components.DataReceivedMsg {
	return m.rawData
}

func (m *SerialModel) AddRawData(msg components.DataReceivedMsg) {
	m.rawData = append(m.rawData, msg)
	m.rxBytes += len(msg.Data)
}

// RXBytes counts every byte received, including cleared chunks
func (m *SerialModel) RXBytes() int {
	return m.rxBytes
}

func (m *SerialModel) ClearData() {
	m.rawData = nil
}
