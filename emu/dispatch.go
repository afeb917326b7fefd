package emu

import "github.com/sarchlab/psxcore/insts"

// handler executes one decoded instruction. A non-nil error is a host
// fault; architectural faults are raised as exceptions and return nil.
type handler func(c *CPU, inst *insts.Instruction) error

// handlers is indexed by insts.Op.
var handlers [insts.NumOps]handler

func init() {
	handlers = [insts.NumOps]handler{
		insts.OpUnknown: (*CPU).opIllegal,

		insts.OpSLL:  (*CPU).opSLL,
		insts.OpSRL:  (*CPU).opSRL,
		insts.OpSRA:  (*CPU).opSRA,
		insts.OpSLLV: (*CPU).opSLLV,
		insts.OpSRLV: (*CPU).opSRLV,
		insts.OpSRAV: (*CPU).opSRAV,

		insts.OpJR:      (*CPU).opJR,
		insts.OpJALR:    (*CPU).opJALR,
		insts.OpSYSCALL: (*CPU).opSYSCALL,
		insts.OpBREAK:   (*CPU).opBREAK,

		insts.OpMFHI:  (*CPU).opMFHI,
		insts.OpMTHI:  (*CPU).opMTHI,
		insts.OpMFLO:  (*CPU).opMFLO,
		insts.OpMTLO:  (*CPU).opMTLO,
		insts.OpMULT:  (*CPU).opMULT,
		insts.OpMULTU: (*CPU).opMULTU,
		insts.OpDIV:   (*CPU).opDIV,
		insts.OpDIVU:  (*CPU).opDIVU,

		insts.OpADD:  (*CPU).opADD,
		insts.OpADDU: (*CPU).opADDU,
		insts.OpSUB:  (*CPU).opSUB,
		insts.OpSUBU: (*CPU).opSUBU,
		insts.OpAND:  (*CPU).opAND,
		insts.OpOR:   (*CPU).opOR,
		insts.OpXOR:  (*CPU).opXOR,
		insts.OpNOR:  (*CPU).opNOR,
		insts.OpSLT:  (*CPU).opSLT,
		insts.OpSLTU: (*CPU).opSLTU,

		insts.OpBLTZ:   (*CPU).opBcondZ,
		insts.OpBGEZ:   (*CPU).opBcondZ,
		insts.OpBLTZAL: (*CPU).opBcondZ,
		insts.OpBGEZAL: (*CPU).opBcondZ,
		insts.OpJ:      (*CPU).opJ,
		insts.OpJAL:    (*CPU).opJAL,
		insts.OpBEQ:    (*CPU).opBEQ,
		insts.OpBNE:    (*CPU).opBNE,
		insts.OpBLEZ:   (*CPU).opBLEZ,
		insts.OpBGTZ:   (*CPU).opBGTZ,

		insts.OpADDI:  (*CPU).opADDI,
		insts.OpADDIU: (*CPU).opADDIU,
		insts.OpSLTI:  (*CPU).opSLTI,
		insts.OpSLTIU: (*CPU).opSLTIU,
		insts.OpANDI:  (*CPU).opANDI,
		insts.OpORI:   (*CPU).opORI,
		insts.OpXORI:  (*CPU).opXORI,
		insts.OpLUI:   (*CPU).opLUI,

		insts.OpMFC0: (*CPU).opMFC0,
		insts.OpMTC0: (*CPU).opMTC0,
		insts.OpRFE:  (*CPU).opRFE,
		insts.OpCOP:  (*CPU).opCOP,
		insts.OpLWC:  (*CPU).opLWCSWC,
		insts.OpSWC:  (*CPU).opLWCSWC,

		insts.OpLB:  (*CPU).opLB,
		insts.OpLH:  (*CPU).opLH,
		insts.OpLWL: (*CPU).opLWL,
		insts.OpLW:  (*CPU).opLW,
		insts.OpLBU: (*CPU).opLBU,
		insts.OpLHU: (*CPU).opLHU,
		insts.OpLWR: (*CPU).opLWR,
		insts.OpSB:  (*CPU).opSB,
		insts.OpSH:  (*CPU).opSH,
		insts.OpSWL: (*CPU).opSWL,
		insts.OpSW:  (*CPU).opSW,
		insts.OpSWR: (*CPU).opSWR,
	}
}

// setReg writes a register at the end of this tick.
func (c *CPU) setReg(reg uint8, value uint32) {
	c.regFile.stage(reg, value)
}

// setRegDelayed writes a register at the end of the next tick.
func (c *CPU) setRegDelayed(reg uint8, value uint32) {
	c.regFile.stageLoad(reg, value)
}
