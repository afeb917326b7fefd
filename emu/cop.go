package emu

import "github.com/sarchlab/psxcore/insts"

func (c *CPU) opMFC0(i *insts.Instruction) error {
	c.setRegDelayed(i.Rt, c.cop0.Read(i.Rd))
	return nil
}

func (c *CPU) opMTC0(i *insts.Instruction) error {
	c.cop0.Write(i.Rd, c.Reg(i.Rt))
	return nil
}

func (c *CPU) opRFE(*insts.Instruction) error {
	c.cop0.returnFromException()
	return nil
}

// opCOP handles coprocessor operations other than MFC0, MTC0 and RFE.
// COP0 has no other operations. COP1 and COP3 do not exist on the PS1 and
// COP2, the GTE, is not emulated.
func (c *CPU) opCOP(i *insts.Instruction) error {
	if cop := i.Cop(); cop != 0 {
		c.raiseCoprocessorUnusable(cop)
		return nil
	}
	c.raise(ExcIllegalInstruction)
	return nil
}

func (c *CPU) opLWCSWC(i *insts.Instruction) error {
	c.raiseCoprocessorUnusable(i.Cop())
	return nil
}

func (c *CPU) opIllegal(*insts.Instruction) error {
	c.raise(ExcIllegalInstruction)
	return nil
}
