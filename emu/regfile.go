// Package emu provides functional MIPS R3000A emulation.
package emu

type regWrite struct {
	reg   uint8
	value uint32
}

// RegFile represents the R3000A general purpose register file.
//
// Register values written by an instruction only become visible to the
// instruction after it: writes are queued during a tick and applied by
// commit. A load adds one more tick of latency by parking its result in the
// pending-load slot, which is moved into the write queue at the start of the
// next tick.
type RegFile struct {
	// gpr holds the committed registers. gpr[0] is always 0.
	gpr [32]uint32

	// writes queued this tick, applied in order by commit.
	writes []regWrite

	// load is the pending delayed load. reg 0 means none.
	load regWrite
}

// NewRegFile creates a zeroed register file.
func NewRegFile() *RegFile {
	return &RegFile{writes: make([]regWrite, 0, 4)}
}

// ReadReg reads a committed register value. Register 0 reads as 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	return r.gpr[reg&31]
}

// WriteReg writes a committed register value directly, bypassing the
// tick pipeline. It is meant for debuggers, loaders and tests; instruction
// handlers use stage and stageLoad. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	r.gpr[reg&31] = value
	r.gpr[0] = 0
}

// PendingLoad returns the register and value of the load waiting in the
// delay slot. A register of 0 means no load is pending.
func (r *RegFile) PendingLoad() (uint8, uint32) {
	return r.load.reg, r.load.value
}

// Out returns the value register reg will hold once the current tick's
// writes are committed.
func (r *RegFile) Out(reg uint8) uint32 {
	v := r.gpr[reg&31]
	for _, w := range r.writes {
		if w.reg == reg&31 {
			v = w.value
		}
	}
	if reg&31 == 0 {
		return 0
	}
	return v
}

// stage queues an immediate write for this tick.
func (r *RegFile) stage(reg uint8, value uint32) {
	if reg&31 == 0 {
		return
	}
	r.writes = append(r.writes, regWrite{reg: reg & 31, value: value})
}

// stageLoad parks a load result in the delay slot, replacing any load that
// is already there.
func (r *RegFile) stageLoad(reg uint8, value uint32) {
	r.load = regWrite{reg: reg & 31, value: value}
}

// commitLoad moves the pending load into this tick's write queue.
func (r *RegFile) commitLoad() {
	if r.load.reg != 0 {
		r.writes = append(r.writes, r.load)
	}
	r.load = regWrite{}
}

// commit applies the queued writes.
func (r *RegFile) commit() {
	for _, w := range r.writes {
		r.gpr[w.reg] = w.value
	}
	r.gpr[0] = 0
	r.writes = r.writes[:0]
}

// discard drops the queued writes and restores the pending load.
func (r *RegFile) discard(load regWrite) {
	r.writes = r.writes[:0]
	r.load = load
}

// reset zeroes every register and forgets pending writes.
func (r *RegFile) reset() {
	r.gpr = [32]uint32{}
	r.writes = r.writes[:0]
	r.load = regWrite{}
}
