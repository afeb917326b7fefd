package emu

import (
	"encoding/binary"
	"fmt"
)

// StateWords is the number of 32-bit words in a CPU save state.
const StateWords = 2 + 32 + 32 + 5 + 32 + 1

// StateSize is the size of a CPU save state in bytes.
const StateSize = StateWords * 4

// SaveState serializes the CPU as little-endian 32-bit words:
//
//	load delay target, load delay value,
//	committed registers [32], registers after pending writes [32],
//	hi, lo, cpc, pc, npc,
//	COP0 registers [32],
//	low 32 bits of the instruction count.
//
// Only call it between ticks.
func (c *CPU) SaveState() []byte {
	buf := make([]byte, 0, StateSize)
	put := func(v uint32) {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}

	target, value := c.regFile.PendingLoad()
	put(uint32(target))
	put(value)

	for r := uint8(0); r < 32; r++ {
		put(c.regFile.ReadReg(r))
	}
	for r := uint8(0); r < 32; r++ {
		put(c.regFile.Out(r))
	}

	put(c.hi)
	put(c.lo)
	put(c.cpc)
	put(c.pc)
	put(c.npc)

	for _, v := range c.cop0.regs {
		put(v)
	}

	put(uint32(c.instrExecCnt))

	return buf
}

// LoadState restores a state produced by SaveState. The run state and
// breakpoints are not part of the image and are left alone.
func (c *CPU) LoadState(data []byte) error {
	if len(data) != StateSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrSaveState, len(data), StateSize)
	}

	pos := 0
	get := func() uint32 {
		v := binary.LittleEndian.Uint32(data[pos:])
		pos += 4
		return v
	}

	target := get()
	if target > 31 {
		return fmt.Errorf("%w: load delay target %d", ErrSaveState, target)
	}
	value := get()

	var in, out [32]uint32
	for r := range in {
		in[r] = get()
	}
	for r := range out {
		out[r] = get()
	}

	c.regFile.reset()
	for r := uint8(1); r < 32; r++ {
		c.regFile.gpr[r] = in[r]
	}
	// Registers whose two copies differ had a write in flight; it lands at
	// the end of the next tick.
	for r := uint8(1); r < 32; r++ {
		if out[r] != in[r] {
			c.regFile.stage(r, out[r])
		}
	}
	c.regFile.stageLoad(uint8(target), value)

	c.hi = get()
	c.lo = get()
	c.cpc = get()
	c.pc = get()
	c.npc = get()

	for r := range c.cop0.regs {
		c.cop0.regs[r] = get()
	}

	c.instrExecCnt = uint64(get())

	return nil
}

// Snapshot is a read-only copy of the architectural state, used by
// debuggers.
type Snapshot struct {
	GPR        [32]uint32
	HI, LO     uint32
	CPC        uint32
	PC, NPC    uint32
	Cop0       [32]uint32
	LoadTarget uint8
	LoadValue  uint32
	State      State
	InstrCount uint64
}

// Snapshot captures the architectural state.
func (c *CPU) Snapshot() Snapshot {
	target, value := c.regFile.PendingLoad()
	return Snapshot{
		GPR:        c.regFile.gpr,
		HI:         c.hi,
		LO:         c.lo,
		CPC:        c.cpc,
		PC:         c.pc,
		NPC:        c.npc,
		Cop0:       c.cop0.regs,
		LoadTarget: target,
		LoadValue:  value,
		State:      c.state,
		InstrCount: c.instrExecCnt,
	}
}
