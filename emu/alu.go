package emu

import (
	"math"

	"github.com/sarchlab/psxcore/insts"
)

func (c *CPU) opSLL(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rt)<<i.Shamt)
	return nil
}

func (c *CPU) opSRL(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rt)>>i.Shamt)
	return nil
}

func (c *CPU) opSRA(i *insts.Instruction) error {
	c.setReg(i.Rd, uint32(int32(c.Reg(i.Rt))>>i.Shamt))
	return nil
}

func (c *CPU) opSLLV(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rt)<<(c.Reg(i.Rs)&0x1F))
	return nil
}

func (c *CPU) opSRLV(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rt)>>(c.Reg(i.Rs)&0x1F))
	return nil
}

func (c *CPU) opSRAV(i *insts.Instruction) error {
	c.setReg(i.Rd, uint32(int32(c.Reg(i.Rt))>>(c.Reg(i.Rs)&0x1F)))
	return nil
}

func (c *CPU) opMFHI(i *insts.Instruction) error {
	c.setReg(i.Rd, c.hi)
	return nil
}

func (c *CPU) opMTHI(i *insts.Instruction) error {
	c.hi = c.Reg(i.Rs)
	return nil
}

func (c *CPU) opMFLO(i *insts.Instruction) error {
	c.setReg(i.Rd, c.lo)
	return nil
}

func (c *CPU) opMTLO(i *insts.Instruction) error {
	c.lo = c.Reg(i.Rs)
	return nil
}

func (c *CPU) opMULT(i *insts.Instruction) error {
	p := int64(int32(c.Reg(i.Rs))) * int64(int32(c.Reg(i.Rt)))
	c.hi = uint32(uint64(p) >> 32)
	c.lo = uint32(p)
	return nil
}

func (c *CPU) opMULTU(i *insts.Instruction) error {
	p := uint64(c.Reg(i.Rs)) * uint64(c.Reg(i.Rt))
	c.hi = uint32(p >> 32)
	c.lo = uint32(p)
	return nil
}

// opDIV never traps. Division by zero and MinInt32/-1 produce the
// R3000A's fixed results.
func (c *CPU) opDIV(i *insts.Instruction) error {
	n := int32(c.Reg(i.Rs))
	d := int32(c.Reg(i.Rt))

	switch {
	case d == 0:
		c.hi = uint32(n)
		if n < 0 {
			c.lo = 1
		} else {
			c.lo = 0xFFFFFFFF
		}
	case n == math.MinInt32 && d == -1:
		c.hi = 0
		c.lo = uint32(n)
	default:
		c.hi = uint32(n % d)
		c.lo = uint32(n / d)
	}
	return nil
}

func (c *CPU) opDIVU(i *insts.Instruction) error {
	n := c.Reg(i.Rs)
	d := c.Reg(i.Rt)

	if d == 0 {
		c.hi = n
		c.lo = 0xFFFFFFFF
		return nil
	}

	c.hi = n % d
	c.lo = n / d
	return nil
}

// addOverflows reports whether a+b overflows as signed 32-bit integers.
func addOverflows(a, b, sum uint32) bool {
	return (a^sum)&(b^sum)&0x80000000 != 0
}

// subOverflows reports whether a-b overflows as signed 32-bit integers.
func subOverflows(a, b, diff uint32) bool {
	return (a^b)&(a^diff)&0x80000000 != 0
}

func (c *CPU) opADD(i *insts.Instruction) error {
	a, b := c.Reg(i.Rs), c.Reg(i.Rt)
	sum := a + b
	if addOverflows(a, b, sum) {
		c.raise(ExcOverflow)
		return nil
	}
	c.setReg(i.Rd, sum)
	return nil
}

func (c *CPU) opADDU(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rs)+c.Reg(i.Rt))
	return nil
}

func (c *CPU) opSUB(i *insts.Instruction) error {
	a, b := c.Reg(i.Rs), c.Reg(i.Rt)
	diff := a - b
	if subOverflows(a, b, diff) {
		c.raise(ExcOverflow)
		return nil
	}
	c.setReg(i.Rd, diff)
	return nil
}

func (c *CPU) opSUBU(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rs)-c.Reg(i.Rt))
	return nil
}

func (c *CPU) opAND(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rs)&c.Reg(i.Rt))
	return nil
}

func (c *CPU) opOR(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rs)|c.Reg(i.Rt))
	return nil
}

func (c *CPU) opXOR(i *insts.Instruction) error {
	c.setReg(i.Rd, c.Reg(i.Rs)^c.Reg(i.Rt))
	return nil
}

func (c *CPU) opNOR(i *insts.Instruction) error {
	c.setReg(i.Rd, ^(c.Reg(i.Rs) | c.Reg(i.Rt)))
	return nil
}

func (c *CPU) opSLT(i *insts.Instruction) error {
	c.setReg(i.Rd, boolToWord(int32(c.Reg(i.Rs)) < int32(c.Reg(i.Rt))))
	return nil
}

func (c *CPU) opSLTU(i *insts.Instruction) error {
	c.setReg(i.Rd, boolToWord(c.Reg(i.Rs) < c.Reg(i.Rt)))
	return nil
}

func (c *CPU) opADDI(i *insts.Instruction) error {
	a, b := c.Reg(i.Rs), i.SImm()
	sum := a + b
	if addOverflows(a, b, sum) {
		c.raise(ExcOverflow)
		return nil
	}
	c.setReg(i.Rt, sum)
	return nil
}

func (c *CPU) opADDIU(i *insts.Instruction) error {
	c.setReg(i.Rt, c.Reg(i.Rs)+i.SImm())
	return nil
}

func (c *CPU) opSLTI(i *insts.Instruction) error {
	c.setReg(i.Rt, boolToWord(int32(c.Reg(i.Rs)) < int32(i.SImm())))
	return nil
}

// opSLTIU compares unsigned against the sign-extended immediate.
func (c *CPU) opSLTIU(i *insts.Instruction) error {
	c.setReg(i.Rt, boolToWord(c.Reg(i.Rs) < i.SImm()))
	return nil
}

func (c *CPU) opANDI(i *insts.Instruction) error {
	c.setReg(i.Rt, c.Reg(i.Rs)&i.ZImm())
	return nil
}

func (c *CPU) opORI(i *insts.Instruction) error {
	c.setReg(i.Rt, c.Reg(i.Rs)|i.ZImm())
	return nil
}

func (c *CPU) opXORI(i *insts.Instruction) error {
	c.setReg(i.Rt, c.Reg(i.Rs)^i.ZImm())
	return nil
}

func (c *CPU) opLUI(i *insts.Instruction) error {
	c.setReg(i.Rt, i.ZImm()<<16)
	return nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
