package devices

import (
	"encoding/binary"

	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/mem"
)

// Memory control offsets within the hardware register block.
const (
	HardRegExpansion1Base = 0x0
	HardRegExpansion2Base = 0x4
)

// HardReg is the hardware register window at 0x1F801000. Registers the
// emulator does not model are plain storage. The expansion base registers
// are fixed on the PS1; remapping them is reported as an error and the
// write is kept so the guest reads back what it wrote.
type HardReg struct {
	regs [mem.HardRegSize]byte
	sink diag.Sink
}

// NewHardReg creates the register block.
func NewHardReg(sink diag.Sink) *HardReg {
	h := &HardReg{sink: diag.OrNop(sink)}
	h.Reset()
	return h
}

// Name returns "hardreg".
func (h *HardReg) Name() string { return "hardreg" }

// Reset restores the power-on values.
func (h *HardReg) Reset() {
	h.regs = [mem.HardRegSize]byte{}
	binary.LittleEndian.PutUint32(h.regs[HardRegExpansion1Base:], mem.Expansion1Addr)
	binary.LittleEndian.PutUint32(h.regs[HardRegExpansion2Base:], mem.Expansion2Addr)
}

// Fetch32 reads a register word.
func (h *HardReg) Fetch32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(h.regs[offset:])
}

// Store32 writes a register word. Remapping an expansion base is reported
// as an error.
func (h *HardReg) Store32(offset uint32, value uint32) {
	switch {
	case offset == HardRegExpansion1Base && value != mem.Expansion1Addr:
		errorf(h.sink, diag.ChannelHardReg, "can not remap expansion 1 to 0x%08X", value)
	case offset == HardRegExpansion2Base && value != mem.Expansion2Addr:
		errorf(h.sink, diag.ChannelHardReg, "can not remap expansion 2 to 0x%08X", value)
	}
	binary.LittleEndian.PutUint32(h.regs[offset:], value)
}

// Fetch16 reads a halfword of the register block.
func (h *HardReg) Fetch16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(h.regs[offset:])
}

// Store16 writes a halfword of the register block.
func (h *HardReg) Store16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(h.regs[offset:], value)
}

// Fetch8 reads a byte of the register block.
func (h *HardReg) Fetch8(offset uint32) uint8 {
	return h.regs[offset]
}

// Store8 writes a byte of the register block.
func (h *HardReg) Store8(offset uint32, value uint8) {
	h.regs[offset] = value
}
