package emu

import (
	"fmt"

	"github.com/sarchlab/psxcore/diag"
)

// Exception is an R3000A exception code as stored in CAUSE[6:2].
type Exception uint8

// Exception codes.
const (
	ExcInterrupt           Exception = 0x0
	ExcAddressErrorLoad    Exception = 0x4
	ExcAddressErrorStore   Exception = 0x5
	ExcSyscall             Exception = 0x8
	ExcBreak               Exception = 0x9
	ExcIllegalInstruction  Exception = 0xA
	ExcCoprocessorUnusable Exception = 0xB
	ExcOverflow            Exception = 0xC
)

func (e Exception) String() string {
	switch e {
	case ExcInterrupt:
		return "Interrupt"
	case ExcAddressErrorLoad:
		return "AddressErrorLoad"
	case ExcAddressErrorStore:
		return "AddressErrorStore"
	case ExcSyscall:
		return "Syscall"
	case ExcBreak:
		return "Break"
	case ExcIllegalInstruction:
		return "IllegalInstruction"
	case ExcCoprocessorUnusable:
		return "CoprocessorUnusable"
	case ExcOverflow:
		return "Overflow"
	default:
		return fmt.Sprintf("Exception(%d)", uint8(e))
	}
}

// raise delivers an exception for the instruction at cpc. An instruction
// whose successor is not cpc+4 is taken to sit in the delay slot of a taken
// branch, so EPC points back at the branch and CAUSE.BD is set.
func (c *CPU) raise(exc Exception) {
	c.raiseAt(exc, c.pc-c.cpc != 4)
}

func (c *CPU) raiseAt(exc Exception, inDelaySlot bool) {
	epc := c.cpc
	if inDelaySlot {
		epc -= 4
	}

	handler := c.cop0.enterException(exc, epc, inDelaySlot)
	c.pc = handler
	c.npc = handler + 4

	c.lastException = exc
	c.exceptions++

	if c.verbose {
		c.logf(diag.Info, "%s at 0x%08X, EPC=0x%08X", exc, c.cpc, epc)
	}
}

// raiseAddressError raises an address error and latches the bad address.
func (c *CPU) raiseAddressError(exc Exception, addr uint32) {
	c.cop0.regs[Cop0BadVaddr] = addr
	c.raise(exc)
}

// raiseCoprocessorUnusable raises CoprocessorUnusable and records the
// coprocessor number in CAUSE.CE.
func (c *CPU) raiseCoprocessorUnusable(cop uint8) {
	c.raise(ExcCoprocessorUnusable)
	c.cop0.regs[Cop0Cause] |= uint32(cop&3) << causeCEShift
}
