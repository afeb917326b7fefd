package devices

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/psxcore/diag"
)

// GPU register offsets.
const (
	GPUGP0 = 0x0 // write: render command, read: GPUREAD
	GPUGP1 = 0x4 // write: display control, read: GPUSTAT
)

// GPUSTAT bits the stub reports.
const (
	GPUStatDisplayDisable uint32 = 1 << 23
	GPUStatReadyCmd       uint32 = 1 << 26
	GPUStatReadyVRAMToCPU uint32 = 1 << 27
	GPUStatReadyDMA       uint32 = 1 << 28
)

// GPU is a register-level stand-in for the graphics processor. It keeps
// the BIOS happy by always reporting ready and records the last command
// written to each port. Nothing is rendered.
type GPU struct {
	stat    uint32
	lastGP0 uint32
	lastGP1 uint32
	sink    diag.Sink
}

// NewGPU creates a GPU in its power-on state.
func NewGPU(sink diag.Sink) *GPU {
	g := &GPU{sink: diag.OrNop(sink)}
	g.Reset()
	return g
}

// Name returns "gpu".
func (g *GPU) Name() string { return "gpu" }

// Reset disables the display and raises every ready flag.
func (g *GPU) Reset() {
	g.stat = GPUStatDisplayDisable | GPUStatReadyCmd | GPUStatReadyVRAMToCPU | GPUStatReadyDMA
	g.lastGP0 = 0
	g.lastGP1 = 0
}

// Status returns GPUSTAT.
func (g *GPU) Status() uint32 { return g.stat }

// LastCommands returns the most recent GP0 and GP1 writes.
func (g *GPU) LastCommands() (gp0, gp1 uint32) { return g.lastGP0, g.lastGP1 }

// Fetch32 reads GPUREAD or GPUSTAT.
func (g *GPU) Fetch32(offset uint32) uint32 {
	if offset == GPUGP1 {
		return g.stat
	}
	return 0
}

// Store32 accepts a GP0 or GP1 command.
func (g *GPU) Store32(offset uint32, value uint32) {
	g.store(offset, value, 0xFFFFFFFF)
}

// Fetch16 reads half of a GPU register.
func (g *GPU) Fetch16(offset uint32) uint16 {
	word, shift, _ := lane(offset, 0xFFFF)
	return uint16(g.Fetch32(word) >> shift)
}

// Fetch8 reads one byte of a GPU register.
func (g *GPU) Fetch8(offset uint32) uint8 {
	word, shift, _ := lane(offset, 0xFF)
	return uint8(g.Fetch32(word) >> shift)
}

// Store16 merges a halfword into the last command written to the port.
func (g *GPU) Store16(offset uint32, value uint16) {
	word, shift, mask := lane(offset, 0xFFFF)
	g.store(word, uint32(value)<<shift, mask)
}

// Store8 merges a byte into the last command written to the port.
func (g *GPU) Store8(offset uint32, value uint8) {
	word, shift, mask := lane(offset, 0xFF)
	g.store(word, uint32(value)<<shift, mask)
}

func (g *GPU) store(offset, value, mask uint32) {
	switch offset {
	case GPUGP0:
		g.lastGP0 = merge(g.lastGP0, value, mask)
		g.sink.Push(fmt.Sprintf("GP0 0x%08X", g.lastGP0), diag.Info, diag.ChannelGPU)
	case GPUGP1:
		g.lastGP1 = merge(g.lastGP1, value, mask)
		g.sink.Push(fmt.Sprintf("GP1 0x%08X", g.lastGP1), diag.Info, diag.ChannelGPU)
	default:
		warnf(g.sink, diag.ChannelGPU, "store to unknown GPU register +0x%X", offset)
	}
}

// MarshalBinary encodes GPUSTAT.
func (g *GPU) MarshalBinary() ([]byte, error) {
	return binary.LittleEndian.AppendUint32(nil, g.stat), nil
}

// UnmarshalBinary restores GPUSTAT.
func (g *GPU) UnmarshalBinary(p []byte) error {
	if len(p) != 4 {
		return fmt.Errorf("gpu: image is %d bytes, want 4", len(p))
	}
	g.stat = binary.LittleEndian.Uint32(p)
	return nil
}
