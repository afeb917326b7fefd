package emu

import (
	"github.com/sarchlab/psxcore/insts"
	"github.com/sarchlab/psxcore/mem"
)

// effectiveAddr returns rs + sext(imm).
func (c *CPU) effectiveAddr(i *insts.Instruction) uint32 {
	return c.Reg(i.Rs) + i.SImm()
}

// Byte and halfword loads reach the bus even while the cache is isolated.
// Only LW is suppressed.

func (c *CPU) opLB(i *insts.Instruction) error {
	v, err := c.bus.Fetch8(c.effectiveAddr(i))
	if err != nil {
		return err
	}
	c.setRegDelayed(i.Rt, uint32(int32(int8(v))))
	return nil
}

func (c *CPU) opLBU(i *insts.Instruction) error {
	v, err := c.bus.Fetch8(c.effectiveAddr(i))
	if err != nil {
		return err
	}
	c.setRegDelayed(i.Rt, uint32(v))
	return nil
}

func (c *CPU) opLH(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if addr%2 != 0 {
		c.raiseAddressError(ExcAddressErrorLoad, addr)
		return nil
	}

	v, err := c.bus.Fetch16(addr)
	if err != nil {
		return err
	}
	c.setRegDelayed(i.Rt, uint32(int32(int16(v))))
	return nil
}

func (c *CPU) opLHU(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if addr%2 != 0 {
		c.raiseAddressError(ExcAddressErrorLoad, addr)
		return nil
	}

	v, err := c.bus.Fetch16(addr)
	if err != nil {
		return err
	}
	c.setRegDelayed(i.Rt, uint32(v))
	return nil
}

func (c *CPU) opLW(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if addr%4 != 0 {
		c.raiseAddressError(ExcAddressErrorLoad, addr)
		return nil
	}

	if c.cop0.CacheIsolated() {
		return nil
	}

	v, err := c.bus.Fetch32(addr)
	if err != nil {
		return err
	}
	c.setRegDelayed(i.Rt, v)
	return nil
}

// opLWL merges the high bytes of the containing word into rt. The result
// is written at the end of this tick rather than through the load delay
// slot, so LWL/LWR pairs see each other's partial results.
func (c *CPU) opLWL(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	w, err := c.bus.Fetch32(addr &^ 3)
	if err != nil {
		return err
	}

	cur := c.Reg(i.Rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = cur&0x00FFFFFF | w<<24
	case 1:
		v = cur&0x0000FFFF | w<<16
	case 2:
		v = cur&0x000000FF | w<<8
	case 3:
		v = w
	}

	c.setReg(i.Rt, v)
	return nil
}

// opLWR merges the low bytes of the containing word into rt. See opLWL.
func (c *CPU) opLWR(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	w, err := c.bus.Fetch32(addr &^ 3)
	if err != nil {
		return err
	}

	cur := c.Reg(i.Rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = w
	case 1:
		v = cur&0xFF000000 | w>>8
	case 2:
		v = cur&0xFFFF0000 | w>>16
	case 3:
		v = cur&0xFFFFFF00 | w>>24
	}

	c.setReg(i.Rt, v)
	return nil
}

// isolatedStore reports whether a store to addr must be dropped because
// the cache is isolated. The matching instruction cache line is
// invalidated, which is how the BIOS flushes the cache.
func (c *CPU) isolatedStore(addr uint32) bool {
	if !c.cop0.CacheIsolated() {
		return false
	}
	if c.icache != nil {
		c.icache.Invalidate(mem.Mask(addr))
	}
	return true
}

func (c *CPU) opSB(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if c.isolatedStore(addr) {
		return nil
	}
	return c.bus.Store8(addr, uint8(c.Reg(i.Rt)))
}

func (c *CPU) opSH(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if addr%2 != 0 {
		c.raiseAddressError(ExcAddressErrorStore, addr)
		return nil
	}
	if c.isolatedStore(addr) {
		return nil
	}
	return c.bus.Store16(addr, uint16(c.Reg(i.Rt)))
}

func (c *CPU) opSW(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if addr%4 != 0 {
		c.raiseAddressError(ExcAddressErrorStore, addr)
		return nil
	}
	if c.isolatedStore(addr) {
		return nil
	}
	return c.bus.Store32(addr, c.Reg(i.Rt))
}

func (c *CPU) opSWL(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if c.isolatedStore(addr) {
		return nil
	}

	aligned := addr &^ 3
	m, err := c.bus.Fetch32(aligned)
	if err != nil {
		return err
	}

	v := c.Reg(i.Rt)
	switch addr & 3 {
	case 0:
		m = m&0xFFFFFF00 | v>>24
	case 1:
		m = m&0xFFFF0000 | v>>16
	case 2:
		m = m&0xFF000000 | v>>8
	case 3:
		m = v
	}

	return c.bus.Store32(aligned, m)
}

func (c *CPU) opSWR(i *insts.Instruction) error {
	addr := c.effectiveAddr(i)
	if c.isolatedStore(addr) {
		return nil
	}

	aligned := addr &^ 3
	m, err := c.bus.Fetch32(aligned)
	if err != nil {
		return err
	}

	v := c.Reg(i.Rt)
	switch addr & 3 {
	case 0:
		m = v
	case 1:
		m = m&0x000000FF | v<<8
	case 2:
		m = m&0x0000FFFF | v<<16
	case 3:
		m = m&0x00FFFFFF | v<<24
	}

	return c.bus.Store32(aligned, m)
}
