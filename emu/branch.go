package emu

import "github.com/sarchlab/psxcore/insts"

// branch redirects the instruction after the delay slot. offset is the
// sign-extended immediate; npc already points past the delay slot.
func (c *CPU) branch(offset uint32) {
	c.npc += offset<<2 - 4
}

func (c *CPU) opBEQ(i *insts.Instruction) error {
	if c.Reg(i.Rs) == c.Reg(i.Rt) {
		c.branch(i.SImm())
	}
	return nil
}

func (c *CPU) opBNE(i *insts.Instruction) error {
	if c.Reg(i.Rs) != c.Reg(i.Rt) {
		c.branch(i.SImm())
	}
	return nil
}

func (c *CPU) opBLEZ(i *insts.Instruction) error {
	if int32(c.Reg(i.Rs)) <= 0 {
		c.branch(i.SImm())
	}
	return nil
}

func (c *CPU) opBGTZ(i *insts.Instruction) error {
	if int32(c.Reg(i.Rs)) > 0 {
		c.branch(i.SImm())
	}
	return nil
}

// opBcondZ handles BLTZ, BGEZ, BLTZAL and BGEZAL. The link variants write
// the return address whether or not the branch is taken.
func (c *CPU) opBcondZ(i *insts.Instruction) error {
	v := int32(c.Reg(i.Rs))

	var taken bool
	switch i.Op {
	case insts.OpBGEZ, insts.OpBGEZAL:
		taken = v >= 0
	default:
		taken = v < 0
	}

	if i.Op == insts.OpBLTZAL || i.Op == insts.OpBGEZAL {
		c.setReg(31, c.npc)
	}

	if taken {
		c.branch(i.SImm())
	}
	return nil
}

func (c *CPU) opJ(i *insts.Instruction) error {
	c.npc = c.npc&0xF0000000 | i.Target<<2
	return nil
}

func (c *CPU) opJAL(i *insts.Instruction) error {
	c.setReg(31, c.npc)
	return c.opJ(i)
}

func (c *CPU) opJR(i *insts.Instruction) error {
	c.npc = c.Reg(i.Rs)
	return nil
}

func (c *CPU) opJALR(i *insts.Instruction) error {
	c.setReg(i.Rd, c.npc)
	c.npc = c.Reg(i.Rs)
	return nil
}

func (c *CPU) opSYSCALL(*insts.Instruction) error {
	c.raise(ExcSyscall)
	return nil
}

func (c *CPU) opBREAK(*insts.Instruction) error {
	c.raise(ExcBreak)
	return nil
}
