package emu

// Coprocessor 0 register numbers.
const (
	Cop0BPC      = 3  // breakpoint on execute address
	Cop0BDA      = 5  // breakpoint on data access address
	Cop0JumpDest = 6  // randomly memorized jump address
	Cop0DCIC     = 7  // breakpoint control
	Cop0BadVaddr = 8  // bad virtual address
	Cop0BDAM     = 9  // data access breakpoint mask
	Cop0BPCM     = 11 // execute breakpoint mask
	Cop0SR       = 12 // status register
	Cop0Cause    = 13 // exception cause
	Cop0EPC      = 14 // exception return address
	Cop0PRID     = 15 // processor id
)

// Status register bits.
const (
	SRIsC uint32 = 1 << 16 // isolate cache
	SRBEV uint32 = 1 << 22 // boot exception vectors in ROM
)

// Cause register fields.
const (
	CauseBD       uint32 = 1 << 31 // exception taken in a branch delay slot
	causeCEShift         = 28
	causeExcShift        = 2
	causeExcMask  uint32 = 0x1F << causeExcShift
	causeCEMask   uint32 = 3 << causeCEShift
	causeSWMask   uint32 = 0x300 // software interrupt bits, writable by MTC0
)

// Exception vectors.
const (
	VectorBEV    uint32 = 0xBFC00180
	VectorNormal uint32 = 0x80000080
)

const prid = 0x00000002 // R3000A

// Cop0 is the system control coprocessor.
type Cop0 struct {
	regs [32]uint32
}

func (c *Cop0) reset() {
	c.regs = [32]uint32{}
	c.regs[Cop0SR] = SRBEV
	c.regs[Cop0PRID] = prid
}

// Read returns a COP0 register.
func (c *Cop0) Read(reg uint8) uint32 {
	return c.regs[reg&31]
}

// Write sets a COP0 register as MTC0 does. Only the software interrupt
// bits of CAUSE are writable; every other register takes the value whole.
func (c *Cop0) Write(reg uint8, value uint32) {
	reg &= 31
	if reg == Cop0Cause {
		c.regs[reg] = c.regs[reg]&^causeSWMask | value&causeSWMask
		return
	}
	c.regs[reg] = value
}

// SR returns the status register.
func (c *Cop0) SR() uint32 {
	return c.regs[Cop0SR]
}

// CacheIsolated reports whether SR.IsC is set.
func (c *Cop0) CacheIsolated() bool {
	return c.regs[Cop0SR]&SRIsC != 0
}

// enterException records an exception and returns the handler address.
//
// Bits [5:0] of SR are three interrupt-enable/user-mode pairs that behave
// like a three-deep stack. Entering an exception pushes a pair of zeroes,
// which disables interrupts and selects kernel mode; the oldest pair is
// discarded.
func (c *Cop0) enterException(exc Exception, epc uint32, inDelaySlot bool) uint32 {
	sr := c.regs[Cop0SR]
	mode := sr & 0x3F
	c.regs[Cop0SR] = sr&^0x3F | (mode<<2)&0x3F

	cause := c.regs[Cop0Cause] &^ (causeExcMask | causeCEMask | CauseBD)
	cause |= uint32(exc) << causeExcShift
	if inDelaySlot {
		cause |= CauseBD
	}
	c.regs[Cop0Cause] = cause
	c.regs[Cop0EPC] = epc

	if sr&SRBEV != 0 {
		return VectorBEV
	}
	return VectorNormal
}

// returnFromException pops the interrupt-enable/mode stack. The oldest
// pair is left untouched.
func (c *Cop0) returnFromException() {
	sr := c.regs[Cop0SR]
	mode := sr & 0x3F
	c.regs[Cop0SR] = sr&^0xF | mode>>2
}
