package devices

import "github.com/sarchlab/psxcore/diag"

// NoDevice stands in for hardware that is not emulated. Fetches return 0
// and stores are dropped. Every access is reported as a warning.
type NoDevice struct {
	sink diag.Sink
}

// NewNoDevice creates a placeholder device reporting to sink.
func NewNoDevice(sink diag.Sink) *NoDevice {
	return &NoDevice{sink: diag.OrNop(sink)}
}

// Name returns "nodevice".
func (n *NoDevice) Name() string { return "nodevice" }

// Fetch8 returns 0.
func (n *NoDevice) Fetch8(offset uint32) uint8 {
	warnf(n.sink, diag.ChannelNoDevice, "8 bit fetching from nodevice at +0x%X", offset)
	return 0
}

// Fetch16 returns 0.
func (n *NoDevice) Fetch16(offset uint32) uint16 {
	warnf(n.sink, diag.ChannelNoDevice, "16 bit fetching from nodevice at +0x%X", offset)
	return 0
}

// Fetch32 returns 0.
func (n *NoDevice) Fetch32(offset uint32) uint32 {
	warnf(n.sink, diag.ChannelNoDevice, "32 bit fetching from nodevice at +0x%X", offset)
	return 0
}

// Store8 drops value.
func (n *NoDevice) Store8(offset uint32, value uint8) {
	warnf(n.sink, diag.ChannelNoDevice, "8 bit storing 0x%02X into nodevice at +0x%X", value, offset)
}

// Store16 drops value.
func (n *NoDevice) Store16(offset uint32, value uint16) {
	warnf(n.sink, diag.ChannelNoDevice, "16 bit storing 0x%04X into nodevice at +0x%X", value, offset)
}

// Store32 drops value.
func (n *NoDevice) Store32(offset uint32, value uint32) {
	warnf(n.sink, diag.ChannelNoDevice, "32 bit storing 0x%08X into nodevice at +0x%X", value, offset)
}
