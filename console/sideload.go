package console

import (
	"context"
	"fmt"

	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/loader"
	"github.com/sarchlab/psxcore/mem"
)

// SideLoad copies an executable into RAM and points the CPU at it. The BIOS
// kernel must already be initialized for the program to make BIOS calls.
func (c *Console) SideLoad(exe *loader.EXE) error {
	textAddr := mem.Mask(exe.TextAddr)
	if err := c.ram.Load(textAddr, exe.Text); err != nil {
		return fmt.Errorf("failed to side-load text: %w", err)
	}

	if exe.BSSSize > 0 {
		if err := c.ram.Load(mem.Mask(exe.BSSAddr), make([]byte, exe.BSSSize)); err != nil {
			return fmt.Errorf("failed to clear bss: %w", err)
		}
	}

	regs := c.cpu.RegFile()
	regs.WriteReg(regGP, exe.GP)
	if exe.StackBase != 0 {
		regs.WriteReg(regSP, exe.StackPointer())
		regs.WriteReg(regFP, exe.StackPointer())
	}
	c.cpu.SetPC(exe.PC)

	c.sink.Push(fmt.Sprintf("side-loaded %d bytes at 0x%08X, entry 0x%08X",
		len(exe.Text), exe.TextAddr, exe.PC), diag.Info, diag.ChannelConsole)

	return nil
}

// BootEXE runs the BIOS until it reaches the shell, side-loads exe and
// leaves the CPU running the executable.
func (c *Console) BootEXE(ctx context.Context, exe *loader.EXE) error {
	userBreak := false
	for _, a := range c.cpu.Breakpoints() {
		if a == ShellEntry {
			userBreak = true
		}
	}
	if !userBreak {
		c.cpu.AddBreakpoint(ShellEntry)
		defer c.cpu.RemoveBreakpoint(ShellEntry)
	}

	c.Start()
	if _, err := c.RunUntilStateChange(ctx); err != nil {
		return fmt.Errorf("failed to boot to the shell: %w", err)
	}
	if c.cpu.PC() != ShellEntry {
		return fmt.Errorf("BIOS stopped at 0x%08X before reaching the shell", c.cpu.PC())
	}

	if err := c.SideLoad(exe); err != nil {
		return err
	}
	c.cpu.SetState(emu.Running)

	return nil
}
